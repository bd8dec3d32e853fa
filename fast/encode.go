package fast

// Encode serializes dec back into FAST wire bytes, always marking every
// field present on the wire (it never exercises COPY/INCR omission on the
// encode side). This is sufficient for round-trip testing of the decoder
// and for any producer that doesn't need maximal compaction; state is
// updated as Decode would update it (Encode additionally records the
// MSG_TYPE slot, which Decode never reads), so a subsequent real-world
// Decode of omitted-field traffic from a true compacting encoder still
// reconstructs correctly against state this function leaves behind.
func Encode(state *FieldTable, dec *Decoded) ([]byte, error) {
	ids, kinds, ok := fieldOrderFor(dec.MsgType)

	numBits := 1
	if ok {
		numBits += len(ids)
	} else {
		numBits++
	}
	pmapBytes := (numBits + 6) / 7
	if pmapBytes == 0 {
		pmapBytes = 1
	}

	var out []byte
	for i := 0; i < pmapBytes; i++ {
		b := byte(0)
		for j := 0; j < 7; j++ {
			bit := i*7 + j
			if bit < numBits {
				b |= byte(0x40) >> uint(j)
			}
		}
		if i == pmapBytes-1 {
			b |= 0x80
		}
		out = append(out, b)
	}

	out = appendInteger(out, uint32(dec.MsgType))
	state[FieldMsgType].Valid = true
	state[FieldMsgType].IntVal = uint32(dec.MsgType)

	if !ok {
		if dec.RawTail != nil {
			out = append(out, encodeBitmapTail(dec.RawTail)...)
		}
		return out, nil
	}

	for i, id := range ids {
		v, str := readDecoded(dec, id)
		switch kinds[i] {
		case kindInt:
			out = appendInteger(out, v)
			if state[id].Operator != OpNone {
				state[id].Valid = true
				state[id].IntVal = v
			}
		case kindASCII:
			out = appendASCII(out, str)
			if state[id].Operator != OpNone {
				n := copy(state[id].StrVal[:], str)
				state[id].Size = n
				state[id].Valid = len(str) <= MaxStrLen
			}
		}
	}
	return out, nil
}

func readDecoded(dec *Decoded, id FieldID) (uint32, []byte) {
	switch id {
	case FieldStockIdx:
		return dec.StockIdx, nil
	case FieldSequence:
		return dec.Sequence, nil
	case FieldTime:
		return dec.Time, nil
	case FieldOrderID:
		if dec.MsgType == 103 {
			return dec.TotalImbalance, nil
		}
		return dec.OrderID, nil
	case FieldVolume:
		return dec.Volume, nil
	case FieldPrice:
		return dec.Price, nil
	case FieldPriceScale:
		return dec.PriceScale, nil
	case FieldBuySell:
		if dec.MsgType == 103 {
			return dec.AuctionType, nil
		}
		return dec.BuySell, nil
	case FieldExchID:
		return dec.ExchID, nil
	case FieldSecurityType:
		return dec.SecurityType, nil
	case FieldFirmID:
		if dec.MsgType == 103 {
			return dec.AuctionTime, nil
		}
		return dec.FirmID, nil
	case FieldSessionID:
		return dec.SessionID, nil
	case FieldBitmap:
		switch dec.MsgType {
		case 103:
			return dec.MarketImbalance, nil
		case 35:
			return 0, dec.SymbolStr
		case 37:
			return 0, dec.FirmStr
		}
	}
	return 0, nil
}

func appendInteger(out []byte, v uint32) []byte {
	var groups []byte
	groups = append(groups, byte(v&0x7f))
	v >>= 7
	for v > 0 {
		groups = append(groups, byte(v&0x7f))
		v >>= 7
	}
	for i := len(groups) - 1; i >= 0; i-- {
		b := groups[i]
		if i == 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func appendASCII(out []byte, s []byte) []byte {
	if len(s) == 0 {
		return append(out, 0x80)
	}
	for i, c := range s {
		b := c & 0x7f
		if i == len(s)-1 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func encodeBitmapTail(raw []byte) []byte {
	var bits []bool
	for _, b := range raw {
		for j := 7; j >= 0; j-- {
			bits = append(bits, (b>>uint(j))&1 != 0)
		}
	}
	var out []byte
	for i := 0; i < len(bits); i += 7 {
		var b byte
		for j := 0; j < 7 && i+j < len(bits); j++ {
			if bits[i+j] {
				b |= byte(0x40) >> uint(j)
			}
		}
		if i+7 >= len(bits) {
			b |= 0x80
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		out = append(out, 0x80)
	}
	return out
}
