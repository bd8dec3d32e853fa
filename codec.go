package arcafeed

import "encoding/binary"

// Read8 fetches a single byte at offset off.
func Read8(b []byte, off int) (byte, error) {
	if off < 0 || off+1 > len(b) {
		return 0, truncatedError("Read8", off+1, len(b))
	}
	return b[off], nil
}

// ReadBE16 reads a big-endian uint16 at offset off. All Arca wire fields are
// big-endian.
func ReadBE16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, truncatedError("ReadBE16", off+2, len(b))
	}
	return binary.BigEndian.Uint16(b[off:]), nil
}

// ReadBE32 reads a big-endian uint32 at offset off.
func ReadBE32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, truncatedError("ReadBE32", off+4, len(b))
	}
	return binary.BigEndian.Uint32(b[off:]), nil
}

// ReadBE64 reads a big-endian uint64 at offset off.
func ReadBE64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, truncatedError("ReadBE64", off+8, len(b))
	}
	return binary.BigEndian.Uint64(b[off:]), nil
}

// WriteBE16 writes a big-endian uint16 at offset off. b must have at least
// off+2 bytes.
func WriteBE16(b []byte, off int, v uint16) error {
	if off < 0 || off+2 > len(b) {
		return truncatedError("WriteBE16", off+2, len(b))
	}
	binary.BigEndian.PutUint16(b[off:], v)
	return nil
}

// WriteBE32 writes a big-endian uint32 at offset off.
func WriteBE32(b []byte, off int, v uint32) error {
	if off < 0 || off+4 > len(b) {
		return truncatedError("WriteBE32", off+4, len(b))
	}
	binary.BigEndian.PutUint32(b[off:], v)
	return nil
}

// ReadLE16 reads a little-endian uint16. Not exercised by the Arca core; kept
// for feed variants (e.g. ITCH) that share this codec.
func ReadLE16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, truncatedError("ReadLE16", off+2, len(b))
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// ReadLE32 reads a little-endian uint32. Not exercised by the Arca core.
func ReadLE32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, truncatedError("ReadLE32", off+4, len(b))
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}
