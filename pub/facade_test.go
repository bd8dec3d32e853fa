package pub_test

import (
	"testing"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/pub"
)

type recordingHooks struct {
	pub.NullHooks
	trades     []*arcafeed.MessageBody
	bookRefreshFirst []bool
	flushed    bool
}

func (h *recordingHooks) OnTrade(m *arcafeed.MessageBody, status uint32) error {
	h.trades = append(h.trades, m)
	return nil
}

func (h *recordingHooks) OnBookRefresh(m *arcafeed.MessageBody, status uint32, first bool) error {
	h.bookRefreshFirst = append(h.bookRefreshFirst, first)
	return nil
}

func (h *recordingHooks) Flush() error {
	h.flushed = true
	return nil
}

type lookupHooks struct {
	recordingHooks
	symbols map[uint16]string
	firms   map[uint16]string
}

func (h *lookupHooks) LookupSymbol(index uint16, sessionID uint8) (string, bool) {
	s, ok := h.symbols[index]
	return s, ok
}

func (h *lookupHooks) LookupFirm(index uint16) (string, bool) {
	f, ok := h.firms[index]
	return f, ok
}

func TestFacadeDispatchesByMsgType(t *testing.T) {
	hooks := &recordingHooks{}
	f := pub.New(hooks)

	m := &arcafeed.MessageBody{MsgType: arcafeed.Trade}
	if err := f.Dispatch(m, 0, false); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(hooks.trades) != 1 {
		t.Fatalf("expected one trade dispatched, got %d", len(hooks.trades))
	}

	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !hooks.flushed {
		t.Fatalf("expected Flush to reach hooks")
	}
}

func TestFacadeBookRefreshFirstFlag(t *testing.T) {
	hooks := &recordingHooks{}
	f := pub.New(hooks)

	m := &arcafeed.MessageBody{MsgType: arcafeed.BookRefresh}
	f.Dispatch(m, 0, true)
	f.Dispatch(m, 0, false)

	if len(hooks.bookRefreshFirst) != 2 || !hooks.bookRefreshFirst[0] || hooks.bookRefreshFirst[1] {
		t.Fatalf("bookRefreshFirst = %v, want [true false]", hooks.bookRefreshFirst)
	}
}

func TestFacadeUnknownMsgType(t *testing.T) {
	f := pub.New(pub.NullHooks{})
	m := &arcafeed.MessageBody{MsgType: arcafeed.MsgType(9999)}
	if err := f.Dispatch(m, 0, false); err != arcafeed.ErrUnknownMsgType {
		t.Fatalf("err = %v, want ErrUnknownMsgType", err)
	}
}

func TestFacadeSymbolFirmLookupAndMisses(t *testing.T) {
	hooks := &lookupHooks{
		symbols: map[uint16]string{1: "IBM"},
		firms:   map[uint16]string{2: "GSCO"},
	}
	f := pub.New(hooks)

	m := &arcafeed.MessageBody{MsgType: arcafeed.Trade, SymbolIndex: 1, FirmIndex: 2}
	f.Dispatch(m, 0, false)
	if got := m.SymbolString(); got != "IBM" {
		t.Fatalf("symbol = %q, want IBM", got)
	}
	if got := m.FirmString(); got != "GSCO" {
		t.Fatalf("firm = %q, want GSCO", got)
	}
	if f.SymbolErrors() != 0 || f.FirmErrors() != 0 {
		t.Fatalf("unexpected lookup errors: symbol=%d firm=%d", f.SymbolErrors(), f.FirmErrors())
	}

	miss := &arcafeed.MessageBody{MsgType: arcafeed.Trade, SymbolIndex: 999, FirmIndex: 999}
	f.Dispatch(miss, 0, false)
	if f.SymbolErrors() != 1 || f.FirmErrors() != 1 {
		t.Fatalf("symbol/firm errors = %d/%d, want 1/1", f.SymbolErrors(), f.FirmErrors())
	}
}

func TestNewWithNilHooksUsesNullHooks(t *testing.T) {
	f := pub.New(nil)
	if err := f.Dispatch(&arcafeed.MessageBody{MsgType: arcafeed.Trade}, 0, false); err != nil {
		t.Fatalf("Dispatch with NullHooks: %v", err)
	}
}
