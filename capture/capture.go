// Package capture provides an optional raw-packet recording sink: every
// datagram a Receiver processes can be mirrored to a zstd-compressed file
// for offline replay, independent of whatever a line's publication hooks do
// with the decoded records.
package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Recorder appends length-prefixed raw packets to an underlying writer,
// optionally zstd-compressed.
type Recorder struct {
	w      io.Writer
	closer func() error
	lenBuf [4]byte
}

// NewRecorder opens filename for writing. "-" writes to stdout. A ".zst" or
// ".zstd" suffix (or forceZstd) wraps the output in a zstd encoder.
func NewRecorder(filename string, forceZstd bool) (*Recorder, error) {
	w, closer, err := openCompressedWriter(filename, forceZstd)
	if err != nil {
		return nil, err
	}
	return &Recorder{w: w, closer: closer}, nil
}

// Write appends one raw packet, framed as a big-endian uint32 length
// followed by the packet bytes.
func (r *Recorder) Write(pkt []byte) error {
	binary.BigEndian.PutUint32(r.lenBuf[:], uint32(len(pkt)))
	if _, err := r.w.Write(r.lenBuf[:]); err != nil {
		return fmt.Errorf("capture: write length prefix: %w", err)
	}
	if _, err := r.w.Write(pkt); err != nil {
		return fmt.Errorf("capture: write packet: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying writer.
func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// Player replays packets previously written by a Recorder.
type Player struct {
	r      io.Reader
	closer func() error
	lenBuf [4]byte
}

// NewPlayer opens filename for reading. "-" reads from stdin. A ".zst" or
// ".zstd" suffix (or forceZstd) unwraps a zstd-compressed stream.
func NewPlayer(filename string, forceZstd bool) (*Player, error) {
	r, closer, err := openCompressedReader(filename, forceZstd)
	if err != nil {
		return nil, err
	}
	return &Player{r: r, closer: closer}, nil
}

// Next reads the next framed packet, or io.EOF when the stream is
// exhausted.
func (p *Player) Next() ([]byte, error) {
	if _, err := io.ReadFull(p.r, p.lenBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(p.lenBuf[:])
	buf := make([]byte, size)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		return nil, fmt.Errorf("capture: short packet read: %w", err)
	}
	return buf, nil
}

// Close releases the underlying reader.
func (p *Player) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func openCompressedWriter(filename string, forceZstd bool) (io.Writer, func() error, error) {
	var writer io.Writer
	var fileCloser func() error

	if filename != "-" {
		file, err := os.Create(filename)
		if err != nil {
			return nil, nil, err
		}
		writer = file
		fileCloser = file.Close
	} else {
		writer = os.Stdout
		fileCloser = func() error { return nil }
	}

	if forceZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zw, err := zstd.NewWriter(writer)
		if err != nil {
			fileCloser()
			return nil, nil, err
		}
		return zw, func() error {
			zw.Close()
			return fileCloser()
		}, nil
	}
	return writer, fileCloser, nil
}

func openCompressedReader(filename string, forceZstd bool) (io.Reader, func() error, error) {
	var reader io.Reader
	var fileCloser func() error

	if filename != "-" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, nil, err
		}
		reader = file
		fileCloser = file.Close
	} else {
		reader = os.Stdin
		fileCloser = func() error { return nil }
	}

	if forceZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zr, err := zstd.NewReader(reader)
		if err != nil {
			fileCloser()
			return nil, nil, err
		}
		return zr, func() error {
			zr.Close()
			return fileCloser()
		}, nil
	}
	return reader, fileCloser, nil
}
