package arcafeed

// ParseBody parses one already-uncompacted message body, dispatched by
// msgType. msgType comes from the containing packet header for
// packet-scoped types, or from the body's own leading two bytes for a
// multiplexed type-99 "orders" packet (see ParseOrders). It returns the
// decoded record and the number of bytes consumed.
//
// Per §4.C: returns 0 consumed (and ErrRunt) if b is shorter than the
// declared minimum for msgType; returns ErrUnknownMsgType for a type this
// parser has no layout for.
func ParseBody(msgType MsgType, b []byte) (MessageBody, int, error) {
	var m MessageBody
	m.MsgType = msgType

	switch msgType {
	case SequenceNumberReset:
		if len(b) < LenSequenceNumberReset {
			return m, 0, runtError(uint16(msgType), LenSequenceNumberReset, len(b))
		}
		m.NextSeqNumber, _ = ReadBE32(b, 0)
		return m, LenSequenceNumberReset, nil

	case MessageUnavailable:
		if len(b) < LenMessageUnavailable {
			return m, 0, runtError(uint16(msgType), LenMessageUnavailable, len(b))
		}
		m.BeginSeqNumber, _ = ReadBE32(b, 0)
		m.EndSeqNumber, _ = ReadBE32(b, 4)
		return m, LenMessageUnavailable, nil

	case SymbolClear:
		if len(b) < LenSymbolClear {
			return m, 0, runtError(uint16(msgType), LenSymbolClear, len(b))
		}
		m.SourceSeqNum, _ = ReadBE32(b, 0)
		m.SymbolIndex, _ = ReadBE16(b, 4)
		m.SessionID, _ = Read8(b, 6)
		return m, LenSymbolClear, nil

	case SymbolMapping:
		if len(b) < LenSymbolMapping {
			return m, 0, runtError(uint16(msgType), LenSymbolMapping, len(b))
		}
		m.SymbolIndex, _ = ReadBE16(b, 0)
		m.SessionID, _ = Read8(b, 2)
		copy(m.Symbol[:16], b[4:20])
		return m, LenSymbolMapping, nil

	case FirmMapping:
		if len(b) < LenFirmMapping {
			return m, 0, runtError(uint16(msgType), LenFirmMapping, len(b))
		}
		m.FirmIndex, _ = ReadBE16(b, 0)
		copy(m.Firm[:5], b[2:7])
		return m, LenFirmMapping, nil

	case ImbalanceRefresh:
		if len(b) < LenImbalanceRefresh {
			return m, 0, runtError(uint16(msgType), LenImbalanceRefresh, len(b))
		}
		m.SymbolIndex, _ = ReadBE16(b, 0)
		m.SessionID, _ = Read8(b, 2)
		m.AuctionType, _ = Read8(b, 3)
		m.Volume, _ = ReadBE32(b, 4)
		m.TotalImbalance, _ = ReadBE32(b, 8)
		m.MarketImbalance, _ = ReadBE32(b, 12)
		m.PriceNumerator, _ = ReadBE32(b, 16)
		m.PriceScaleCode, _ = Read8(b, 20)
		at, _ := ReadBE16(b, 22)
		m.AuctionTime = at
		m.ExchangeID, _ = Read8(b, 24)
		m.SecurityType, _ = Read8(b, 25)
		m.FirmIndex, _ = ReadBE16(b, 26)
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenImbalanceRefresh, nil

	case BookRefresh:
		if len(b) < LenBookRefresh {
			return m, 0, runtError(uint16(msgType), LenBookRefresh, len(b))
		}
		m.SourceTime, _ = ReadBE32(b, 0)
		m.OrderID, _ = ReadBE32(b, 4)
		m.Volume, _ = ReadBE32(b, 8)
		m.PriceNumerator, _ = ReadBE32(b, 12)
		m.PriceScaleCode, _ = Read8(b, 16)
		s, _ := Read8(b, 17)
		m.Side = Side(s)
		m.ExchangeID, _ = Read8(b, 18)
		m.SecurityType, _ = Read8(b, 19)
		m.FirmIndex, _ = ReadBE16(b, 20)
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenBookRefresh, nil

	case AddOrder, ModifyOrder:
		if len(b) < LenAddOrder {
			return m, 0, runtError(uint16(msgType), LenAddOrder, len(b))
		}
		m.SourceTime, _ = ReadBE32(b, 0)
		m.OrderID, _ = ReadBE32(b, 4)
		m.Volume, _ = ReadBE32(b, 8)
		m.PriceNumerator, _ = ReadBE32(b, 12)
		m.PriceScaleCode, _ = Read8(b, 16)
		s, _ := Read8(b, 17)
		m.Side = Side(s)
		m.ExchangeID, _ = Read8(b, 18)
		m.SecurityType, _ = Read8(b, 19)
		m.FirmIndex, _ = ReadBE16(b, 20)
		m.SessionID, _ = Read8(b, 22)
		m.SymbolIndex, _ = ReadBE16(b, 24)
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenAddOrder, nil

	case DeleteOrder:
		if len(b) < LenDeleteOrder {
			return m, 0, runtError(uint16(msgType), LenDeleteOrder, len(b))
		}
		m.SourceTime, _ = ReadBE32(b, 0)
		m.OrderID, _ = ReadBE32(b, 4)
		s, _ := Read8(b, 8)
		m.Side = Side(s)
		m.ExchangeID, _ = Read8(b, 9)
		m.SecurityType, _ = Read8(b, 10)
		m.SessionID, _ = Read8(b, 11)
		m.FirmIndex, _ = ReadBE16(b, 12)
		m.SymbolIndex, _ = ReadBE16(b, 14)
		return m, LenDeleteOrder, nil

	case Imbalance:
		if len(b) < LenImbalance {
			return m, 0, runtError(uint16(msgType), LenImbalance, len(b))
		}
		m.SymbolIndex, _ = ReadBE16(b, 0)
		m.SourceSeqNum, _ = ReadBE32(b, 2)
		m.SourceTime, _ = ReadBE32(b, 6)
		m.Volume, _ = ReadBE32(b, 10)
		m.TotalImbalance, _ = ReadBE32(b, 14)
		m.MarketImbalance, _ = ReadBE32(b, 18)
		m.PriceNumerator, _ = ReadBE32(b, 22)
		m.PriceScaleCode, _ = Read8(b, 26)
		m.AuctionType, _ = Read8(b, 27)
		m.ExchangeID, _ = Read8(b, 28)
		m.SecurityType, _ = Read8(b, 29)
		m.SessionID, _ = Read8(b, 30)
		at, _ := ReadBE16(b, 32)
		m.AuctionTime = at
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenImbalance, nil

	case Trade:
		if len(b) < LenTrade {
			return m, 0, runtError(uint16(msgType), LenTrade, len(b))
		}
		m.SourceSeqNum, _ = ReadBE32(b, 0)
		m.SourceTime, _ = ReadBE32(b, 4)
		m.SymbolIndex, _ = ReadBE16(b, 8)
		m.SessionID, _ = Read8(b, 10)
		m.ExchangeID, _ = Read8(b, 11)
		m.SecurityType, _ = Read8(b, 12)
		m.PriceScaleCode, _ = Read8(b, 13)
		m.PriceNumerator, _ = ReadBE32(b, 14)
		m.Volume, _ = ReadBE32(b, 18)
		m.BuySideLinkID, _ = ReadBE32(b, 22)
		m.SellSideLinkID, _ = ReadBE32(b, 26)
		m.QuoteLinkID, _ = ReadBE32(b, 30)
		copy(m.TradeCond[:], b[34:38])
		m.FirmIndex, _ = ReadBE16(b, 38)
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenTrade, nil

	case TradeCancel:
		if len(b) < LenTradeCancel {
			return m, 0, runtError(uint16(msgType), LenTradeCancel, len(b))
		}
		m.OriginalSrcSeqNum, _ = ReadBE32(b, 0)
		m.SourceSeqNum, _ = ReadBE32(b, 4)
		m.SourceTime, _ = ReadBE32(b, 8)
		m.SymbolIndex, _ = ReadBE16(b, 12)
		m.SessionID, _ = Read8(b, 14)
		m.ExchangeID, _ = Read8(b, 15)
		m.SecurityType, _ = Read8(b, 16)
		return m, LenTradeCancel, nil

	case TradeCorrection:
		if len(b) < LenTradeCorrection {
			return m, 0, runtError(uint16(msgType), LenTradeCorrection, len(b))
		}
		m.OriginalSrcSeqNum, _ = ReadBE32(b, 0)
		m.SourceSeqNum, _ = ReadBE32(b, 4)
		m.SourceTime, _ = ReadBE32(b, 8)
		m.SymbolIndex, _ = ReadBE16(b, 12)
		m.SessionID, _ = Read8(b, 14)
		m.ExchangeID, _ = Read8(b, 15)
		m.SecurityType, _ = Read8(b, 16)
		m.PriceScaleCode, _ = Read8(b, 17)
		m.PriceNumerator, _ = ReadBE32(b, 18)
		m.Volume, _ = ReadBE32(b, 22)
		m.BuySideLinkID, _ = ReadBE32(b, 26)
		m.SellSideLinkID, _ = ReadBE32(b, 30)
		m.QuoteLinkID, _ = ReadBE32(b, 34)
		copy(m.TradeCond[:], b[38:42])
		m.FirmIndex, _ = ReadBE16(b, 42)
		m.Price = MakePrice(m.PriceScaleCode, m.PriceNumerator)
		return m, LenTradeCorrection, nil

	default:
		return m, 0, ErrUnknownMsgType
	}
}

// ParseOrders dispatches a type-99 multiplexed "orders" body: the first two
// bytes are the inner message type (100/101/102/103), followed by that
// inner type's own body layout. Returns consumed bytes including the
// 2-byte inner-type prefix, or 1 as a sentinel meaning "unknown inner type,
// otherwise-valid packet" per §4.C, with ErrUnknownBodyType.
func ParseOrders(b []byte) (MessageBody, int, error) {
	var m MessageBody
	if len(b) < 2 {
		return m, 0, runtError(uint16(Orders), 2, len(b))
	}
	innerType, _ := ReadBE16(b, 0)
	switch MsgType(innerType) {
	case AddOrder, ModifyOrder, DeleteOrder, Imbalance:
		rec, n, err := ParseBody(MsgType(innerType), b[2:])
		if err != nil {
			return m, 0, err
		}
		return rec, n + 2, nil
	default:
		return m, 1, ErrUnknownBodyType
	}
}
