// Package pub implements the publication facade (§4.G): a thin dispatcher
// handing each decoded record, plus a status word, to registered
// publication hooks. Every hook is optional (§6 "Plug-in hook interface");
// NullHooks supplies a default no-op implementation of all of them, the
// capability-set abstraction called for in place of the original's
// plug-in table of function addresses (§9).
package pub

import "github.com/csi-fh/arcafeed"

// Hooks is the full set of per-message-kind publication callbacks plus the
// feed-level alert callbacks. A host that only cares about trades can embed
// NullHooks and override just OnTrade.
type Hooks interface {
	OnSequenceReset(m *arcafeed.MessageBody, status uint32) error
	OnSymbolClear(m *arcafeed.MessageBody, status uint32) error
	OnSymbolMapping(m *arcafeed.MessageBody, status uint32) error
	OnFirmMapping(m *arcafeed.MessageBody, status uint32) error
	OnBookRefresh(m *arcafeed.MessageBody, status uint32, first bool) error
	OnImbalanceRefresh(m *arcafeed.MessageBody, status uint32) error
	OnAddOrder(m *arcafeed.MessageBody, status uint32) error
	OnModifyOrder(m *arcafeed.MessageBody, status uint32) error
	OnDeleteOrder(m *arcafeed.MessageBody, status uint32) error
	OnImbalance(m *arcafeed.MessageBody, status uint32) error
	OnTrade(m *arcafeed.MessageBody, status uint32) error
	OnTradeCancel(m *arcafeed.MessageBody, status uint32) error
	OnTradeCorrection(m *arcafeed.MessageBody, status uint32) error

	// OnPacketLossAlert reports a permanently-lost sequence range.
	OnPacketLossAlert(begin, end uint64, status uint32) error
	// OnFeedAlert reports a feed-level state-change or runt/parse alert.
	OnFeedAlert(alertType arcafeed.AlertType, status uint32) error

	// Flush is called once at the end of each packet's publications,
	// mirroring the original's msg_flush hook.
	Flush() error
}

// SymbolLookup resolves a symbol index to its ASCII symbol. Implementing it
// is optional; the facade only type-asserts for it on a Hooks value.
type SymbolLookup interface {
	LookupSymbol(index uint16, sessionID uint8) (string, bool)
}

// FirmLookup resolves a firm index to its ASCII firm id. Optional, like
// SymbolLookup.
type FirmLookup interface {
	LookupFirm(index uint16) (string, bool)
}

// NullHooks is a default no-op implementation of Hooks. Embed it and
// override only the methods a particular publication target cares about.
type NullHooks struct{}

var _ Hooks = NullHooks{}

func (NullHooks) OnSequenceReset(*arcafeed.MessageBody, uint32) error        { return nil }
func (NullHooks) OnSymbolClear(*arcafeed.MessageBody, uint32) error         { return nil }
func (NullHooks) OnSymbolMapping(*arcafeed.MessageBody, uint32) error       { return nil }
func (NullHooks) OnFirmMapping(*arcafeed.MessageBody, uint32) error         { return nil }
func (NullHooks) OnBookRefresh(*arcafeed.MessageBody, uint32, bool) error   { return nil }
func (NullHooks) OnImbalanceRefresh(*arcafeed.MessageBody, uint32) error    { return nil }
func (NullHooks) OnAddOrder(*arcafeed.MessageBody, uint32) error            { return nil }
func (NullHooks) OnModifyOrder(*arcafeed.MessageBody, uint32) error         { return nil }
func (NullHooks) OnDeleteOrder(*arcafeed.MessageBody, uint32) error         { return nil }
func (NullHooks) OnImbalance(*arcafeed.MessageBody, uint32) error           { return nil }
func (NullHooks) OnTrade(*arcafeed.MessageBody, uint32) error               { return nil }
func (NullHooks) OnTradeCancel(*arcafeed.MessageBody, uint32) error         { return nil }
func (NullHooks) OnTradeCorrection(*arcafeed.MessageBody, uint32) error     { return nil }
func (NullHooks) OnPacketLossAlert(uint64, uint64, uint32) error            { return nil }
func (NullHooks) OnFeedAlert(arcafeed.AlertType, uint32) error              { return nil }
func (NullHooks) Flush() error                                             { return nil }
