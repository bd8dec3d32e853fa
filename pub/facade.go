package pub

import "github.com/csi-fh/arcafeed"

// Facade dispatches decoded records to a Hooks implementation, resolving
// symbol/firm strings first when a lookup hook is registered (§4.G step 1)
// and tracking per-table lookup-miss counters. It does not allocate or pack
// a raw send buffer the way the original's init_message/msg_send pairing
// does: hooks receive the typed *arcafeed.MessageBody directly, which is
// the idiomatic Go equivalent of "hand the publication transport a buffer
// to pack" — the transport-specific packing, if any, belongs in the Hooks
// implementation, not in this dispatcher.
type Facade struct {
	Hooks Hooks

	symbolErrors uint64
	firmErrors   uint64
}

// New returns a Facade dispatching to hooks. A nil hooks is replaced with
// NullHooks.
func New(hooks Hooks) *Facade {
	if hooks == nil {
		hooks = NullHooks{}
	}
	return &Facade{Hooks: hooks}
}

// SymbolErrors is the cumulative count of symbol-lookup misses.
func (f *Facade) SymbolErrors() uint64 { return f.symbolErrors }

// FirmErrors is the cumulative count of firm-lookup misses.
func (f *Facade) FirmErrors() uint64 { return f.firmErrors }

func (f *Facade) resolveSymbol(m *arcafeed.MessageBody) {
	sl, ok := f.Hooks.(SymbolLookup)
	if !ok {
		return
	}
	if sym, found := sl.LookupSymbol(m.SymbolIndex, m.SessionID); found {
		copy(m.Symbol[:], sym)
	} else {
		f.symbolErrors++
	}
}

func (f *Facade) resolveFirm(m *arcafeed.MessageBody) {
	fl, ok := f.Hooks.(FirmLookup)
	if !ok {
		return
	}
	if firm, found := fl.LookupFirm(m.FirmIndex); found {
		copy(m.Firm[:], firm)
	} else {
		f.firmErrors++
	}
}

// Dispatch resolves references and calls the type-specific publication
// hook for m. first is only meaningful for BookRefresh: it is true on the
// first body of the first packet of a refresh sequence (§4.E supplement).
func (f *Facade) Dispatch(m *arcafeed.MessageBody, status uint32, first bool) error {
	switch m.MsgType {
	case arcafeed.SequenceNumberReset:
		return f.Hooks.OnSequenceReset(m, status)
	case arcafeed.SymbolClear:
		return f.Hooks.OnSymbolClear(m, status)
	case arcafeed.SymbolMapping:
		return f.Hooks.OnSymbolMapping(m, status)
	case arcafeed.FirmMapping:
		return f.Hooks.OnFirmMapping(m, status)
	case arcafeed.BookRefresh:
		f.resolveFirm(m)
		return f.Hooks.OnBookRefresh(m, status, first)
	case arcafeed.ImbalanceRefresh:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnImbalanceRefresh(m, status)
	case arcafeed.AddOrder:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnAddOrder(m, status)
	case arcafeed.ModifyOrder:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnModifyOrder(m, status)
	case arcafeed.DeleteOrder:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnDeleteOrder(m, status)
	case arcafeed.Imbalance:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnImbalance(m, status)
	case arcafeed.Trade:
		f.resolveSymbol(m)
		f.resolveFirm(m)
		return f.Hooks.OnTrade(m, status)
	case arcafeed.TradeCancel:
		f.resolveSymbol(m)
		return f.Hooks.OnTradeCancel(m, status)
	case arcafeed.TradeCorrection:
		f.resolveSymbol(m)
		return f.Hooks.OnTradeCorrection(m, status)
	default:
		return arcafeed.ErrUnknownMsgType
	}
}

// DispatchPacketLoss reports a permanently-lost sequence range.
func (f *Facade) DispatchPacketLoss(begin, end uint64, status uint32) error {
	return f.Hooks.OnPacketLossAlert(begin, end, status)
}

// DispatchFeedAlert reports a feed-level alert (state change, runt packet, parse error).
func (f *Facade) DispatchFeedAlert(alertType arcafeed.AlertType, status uint32) error {
	return f.Hooks.OnFeedAlert(alertType, status)
}

// Flush signals the end of a packet's publications.
func (f *Facade) Flush() error {
	return f.Hooks.Flush()
}
