package fast

// Decoded is the typed result of decoding one FAST-compacted message. Fields
// are populated according to the decoded MsgType; callers should only read
// the fields relevant to that type. Where the wire format reuses a field
// slot for more than one meaning (ORDER_ID doubling as total-imbalance,
// FIRM_ID as auction-time, BITMAP as a symbol/firm string or a raw integer),
// Decoded exposes both named meanings rather than making the caller
// remember which slot means what.
type Decoded struct {
	MsgType uint16

	StockIdx     uint32
	Sequence     uint32
	Time         uint32
	OrderID      uint32
	Volume       uint32
	Price        uint32
	PriceScale   uint32
	BuySell      uint32
	ExchID       uint32
	SecurityType uint32
	FirmID       uint32
	SessionID    uint32

	// Imbalance-message (103) reuses of OrderID/BuySell/FirmID.
	TotalImbalance uint32
	AuctionType    uint32
	AuctionTime    uint32
	// MarketImbalance is the BITMAP slot decoded as an integer for message
	// type 103 (confirmed against the reference decoder: despite using the
	// BITMAP state slot, this field is integer-decoded on the wire, not
	// bitmap-decoded).
	MarketImbalance uint32

	// SymbolStr/FirmStr are the BITMAP slot decoded as an ASCII string for
	// symbol-mapping (35) and firm-mapping (37) respectively.
	SymbolStr []byte
	FirmStr   []byte

	// RawTail is the trailing bitmap blob for any message type not in the
	// known field-order table.
	RawTail []byte
}

type fieldKind int

const (
	kindInt fieldKind = iota
	kindASCII
)

// fieldOrderFor returns the type-specific field order (§4.B) for msgType,
// excluding the always-first MSG_TYPE field. ok is false for message types
// with no known order, meaning only a trailing raw bitmap tail is decoded.
func fieldOrderFor(msgType uint16) (ids []FieldID, kinds []fieldKind, ok bool) {
	intKinds := func(n int) []fieldKind {
		k := make([]fieldKind, n)
		for i := range k {
			k[i] = kindInt
		}
		return k
	}
	switch msgType {
	case 100, 101: // Add/Modify order
		ids = []FieldID{FieldStockIdx, FieldSequence, FieldTime, FieldOrderID, FieldVolume,
			FieldPrice, FieldPriceScale, FieldBuySell, FieldExchID, FieldSecurityType,
			FieldFirmID, FieldSessionID}
		return ids, intKinds(len(ids)), true
	case 102: // Delete order
		ids = []FieldID{FieldStockIdx, FieldSequence, FieldTime, FieldOrderID, FieldBuySell,
			FieldExchID, FieldSecurityType, FieldSessionID, FieldFirmID}
		return ids, intKinds(len(ids)), true
	case 103: // Imbalance
		ids = []FieldID{FieldStockIdx, FieldSequence, FieldTime, FieldVolume, FieldOrderID,
			FieldBitmap, FieldPrice, FieldPriceScale, FieldBuySell, FieldExchID,
			FieldSecurityType, FieldSessionID, FieldFirmID}
		return ids, intKinds(len(ids)), true
	case 35: // Symbol mapping
		ids = []FieldID{FieldStockIdx, FieldSessionID, FieldBitmap}
		return ids, []fieldKind{kindInt, kindInt, kindASCII}, true
	case 36: // Symbol clear
		ids = []FieldID{FieldSequence, FieldStockIdx, FieldSessionID}
		return ids, intKinds(len(ids)), true
	case 37: // Firm mapping
		ids = []FieldID{FieldFirmID, FieldBitmap}
		return ids, []fieldKind{kindInt, kindASCII}, true
	case 32: // Book refresh
		ids = []FieldID{FieldSequence, FieldTime, FieldOrderID, FieldVolume, FieldPrice,
			FieldPriceScale, FieldBuySell, FieldExchID, FieldSecurityType, FieldFirmID}
		return ids, intKinds(len(ids)), true
	case 1: // Sequence number reset
		ids = []FieldID{FieldSequence}
		return ids, intKinds(len(ids)), true
	default:
		return nil, nil, false
	}
}

// Decode expands one FAST-encoded message from src using and updating
// state, returning the decoded record and the number of bytes consumed.
// Fields are decoded against a local copy of state that is written back
// only when the whole message succeeds, so a failed decode leaves state
// exactly as it was before the call.
func Decode(state *FieldTable, src []byte) (*Decoded, int, error) {
	bits, pos, err := parsePmap(src)
	if err != nil {
		return nil, 0, err
	}
	if len(bits) == 0 || !bits[0] {
		return nil, 0, ErrInvalidHeader
	}

	mtVal, pos, err := decodeInteger(src, pos)
	if err != nil {
		return nil, 0, err
	}

	dec := &Decoded{MsgType: uint16(mtVal)}

	ids, kinds, ok := fieldOrderFor(dec.MsgType)
	if !ok {
		if len(bits) < 2 {
			return nil, 0, ErrInvalidHeader
		}
		if bits[1] {
			tail, newPos, err := decodeBitmapTail(src, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = newPos
			dec.RawTail = tail
		}
		return dec, pos, nil
	}

	if len(bits) < 1+len(ids) {
		return nil, 0, ErrInvalidHeader
	}

	work := *state
	for i, id := range ids {
		present := bits[1+i]
		kind := kinds[i]

		if !present {
			st := &work[id]
			if !st.Valid {
				return nil, 0, ErrInvalidState
			}
			switch st.Operator {
			case OpCopy:
				assignDecoded(dec, id, st.IntVal, st.StrVal[:st.Size])
			case OpIncr:
				st.IntVal++
				assignDecoded(dec, id, st.IntVal, nil)
			default:
				return nil, 0, ErrInvalidState
			}
			continue
		}

		switch kind {
		case kindInt:
			v, newPos, err := decodeInteger(src, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = newPos
			assignDecoded(dec, id, v, nil)
			if work[id].Operator != OpNone {
				work[id].Valid = true
				work[id].IntVal = v
			}
		case kindASCII:
			strBytes, newPos, stateOK, err := decodeASCII(src, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = newPos
			assignDecoded(dec, id, 0, strBytes)
			if work[id].Operator != OpNone {
				if stateOK {
					n := copy(work[id].StrVal[:], strBytes)
					work[id].Size = n
					work[id].Valid = true
				} else {
					work[id].Valid = false
				}
			}
		}
	}

	*state = work
	return dec, pos, nil
}

// assignDecoded writes an individual decoded field into dec, resolving the
// wire's field-slot reuse based on dec.MsgType.
func assignDecoded(dec *Decoded, id FieldID, intVal uint32, strVal []byte) {
	switch id {
	case FieldStockIdx:
		dec.StockIdx = intVal
	case FieldSequence:
		dec.Sequence = intVal
	case FieldTime:
		dec.Time = intVal
	case FieldOrderID:
		if dec.MsgType == 103 {
			dec.TotalImbalance = intVal
		} else {
			dec.OrderID = intVal
		}
	case FieldVolume:
		dec.Volume = intVal
	case FieldPrice:
		dec.Price = intVal
	case FieldPriceScale:
		dec.PriceScale = intVal
	case FieldBuySell:
		if dec.MsgType == 103 {
			dec.AuctionType = intVal
		} else {
			dec.BuySell = intVal
		}
	case FieldExchID:
		dec.ExchID = intVal
	case FieldSecurityType:
		dec.SecurityType = intVal
	case FieldFirmID:
		if dec.MsgType == 103 {
			dec.AuctionTime = intVal
		} else {
			dec.FirmID = intVal
		}
	case FieldSessionID:
		dec.SessionID = intVal
	case FieldBitmap:
		switch dec.MsgType {
		case 103:
			dec.MarketImbalance = intVal
		case 35:
			dec.SymbolStr = append([]byte(nil), strVal...)
		case 37:
			dec.FirmStr = append([]byte(nil), strVal...)
		}
	}
}

// parsePmap reads the variable-length presence map at the start of src,
// returning one bool per logical bit (7 bits per byte, high bit is the
// continuation/stop marker) and the number of bytes consumed.
func parsePmap(src []byte) ([]bool, int, error) {
	var bits []bool
	for i := 0; i < MaxPmapBytes; i++ {
		if i >= len(src) {
			return nil, 0, ErrIncomplete
		}
		b := src[i]
		stop := b&0x80 != 0
		low7 := b & 0x7f
		for j := 0; j < 7; j++ {
			mask := byte(0x40) >> uint(j)
			bits = append(bits, low7&mask != 0)
		}
		if stop {
			return bits, i + 1, nil
		}
	}
	return nil, 0, ErrInvalidHeader
}

// decodeInteger reads a 7-bit-group-encoded integer starting at pos: bytes
// with the high bit clear continue, the terminating byte's high bit is set.
func decodeInteger(src []byte, pos int) (uint32, int, error) {
	var acc uint32
	for {
		if pos >= len(src) {
			return 0, pos, ErrIncomplete
		}
		b := src[pos]
		pos++
		acc = (acc << 7) | uint32(b&0x7f)
		if b&0x80 != 0 {
			return acc, pos, nil
		}
	}
}

// decodeASCII reads a 7-bit-group-encoded ASCII string starting at pos,
// using the same continuation/stop framing as decodeInteger. The second
// return value reports whether the string fits within MaxStrLen and can
// therefore be remembered for a future COPY.
func decodeASCII(src []byte, pos int) ([]byte, int, bool, error) {
	var buf []byte
	for {
		if pos >= len(src) {
			return nil, pos, false, ErrIncomplete
		}
		b := src[pos]
		pos++
		stop := b&0x80 != 0
		buf = append(buf, b&0x7f)
		if stop {
			break
		}
	}
	return buf, pos, len(buf) <= MaxStrLen, nil
}

// decodeBitmapTail re-expands 7-bit groups into 8-bit output bytes, used for
// the opaque tail of an unrecognized message type.
func decodeBitmapTail(src []byte, pos int) ([]byte, int, error) {
	var bitBuf []bool
	for {
		if pos >= len(src) {
			return nil, pos, ErrIncomplete
		}
		b := src[pos]
		pos++
		stop := b&0x80 != 0
		low7 := b & 0x7f
		for j := 6; j >= 0; j-- {
			bitBuf = append(bitBuf, (low7>>uint(j))&1 != 0)
		}
		if stop {
			break
		}
	}
	out := make([]byte, 0, (len(bitBuf)+7)/8)
	for i := 0; i < len(bitBuf); i += 8 {
		var b byte
		for j := 0; j < 8 && i+j < len(bitBuf); j++ {
			if bitBuf[i+j] {
				b |= 1 << uint(7-j)
			}
		}
		out = append(out, b)
	}
	return out, pos, nil
}
