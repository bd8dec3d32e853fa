package fast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleDecoded builds a fixture record populated with only the fields
// msgType actually carries on the wire (§4.B's per-type field order), so an
// encode-then-decode round trip can be compared field-for-field instead of
// leaving stale values behind for slots the type never touches.
func sampleDecoded(msgType uint16) *Decoded {
	d := &Decoded{MsgType: msgType}
	switch msgType {
	case 100, 101: // Add/Modify order
		d.StockIdx = 42
		d.Sequence = 1001
		d.Time = 123456
		d.OrderID = 9001
		d.Volume = 500
		d.Price = 1234500
		d.PriceScale = 4
		d.BuySell = 1
		d.ExchID = 7
		d.SecurityType = 1
		d.FirmID = 12
		d.SessionID = 1
	case 102: // Delete order: no Volume/Price/PriceScale
		d.StockIdx = 42
		d.Sequence = 1001
		d.Time = 123456
		d.OrderID = 9001
		d.BuySell = 1
		d.ExchID = 7
		d.SecurityType = 1
		d.SessionID = 1
		d.FirmID = 12
	case 103: // Imbalance: OrderID/BuySell/FirmID slots reused
		d.StockIdx = 42
		d.Sequence = 1001
		d.Time = 123456
		d.Volume = 500
		d.TotalImbalance = 500
		d.MarketImbalance = 250
		d.Price = 1234500
		d.PriceScale = 4
		d.AuctionType = 2
		d.ExchID = 7
		d.SecurityType = 1
		d.SessionID = 1
		d.AuctionTime = 930
	case 35: // Symbol mapping
		d.StockIdx = 42
		d.SessionID = 1
		d.SymbolStr = []byte("IBM")
	case 36: // Symbol clear
		d.Sequence = 1001
		d.StockIdx = 42
		d.SessionID = 1
	case 37: // Firm mapping
		d.FirmID = 12
		d.FirmStr = []byte("GSCO")
	case 32: // Book refresh: no StockIdx/SessionID
		d.Sequence = 1001
		d.Time = 123456
		d.OrderID = 9001
		d.Volume = 500
		d.Price = 1234500
		d.PriceScale = 4
		d.BuySell = 1
		d.ExchID = 7
		d.SecurityType = 1
		d.FirmID = 12
	case 1: // Sequence number reset
		d.Sequence = 1001
	}
	return d
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, msgType := range []uint16{100, 101, 102, 103, 35, 36, 37, 32, 1} {
		msgType := msgType
		t.Run(string(rune(msgType)), func(t *testing.T) {
			encState := NewFieldTable()
			want := sampleDecoded(msgType)
			wire, err := Encode(encState, want)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decState := NewFieldTable()
			got, n, err := Decode(decState, wire)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(wire) {
				t.Fatalf("consumed %d, want %d", n, len(wire))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeCopyIncrAcrossPacketBoundaryFails(t *testing.T) {
	state := NewFieldTable()
	first := sampleDecoded(100)
	wire, err := Encode(state, first)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, _, err := Decode(state, wire); err != nil {
		t.Fatalf("Decode first message: %v", err)
	}

	// Simulate a second message that omits every COPY/INCR-able field
	// (pmap clear except MSG_TYPE): it must reconstruct from state. Within
	// the same packet (state untouched) this succeeds.
	omitWire := []byte{0x40, 0x80, 0x80 | byte(100)}
	if _, _, err := Decode(state, omitWire); err != nil {
		t.Fatalf("expected in-packet COPY/INCR reconstruction to succeed, got %v", err)
	}

	// A new packet resets the state table; the same omitted-field message
	// must now fail with ErrInvalidState.
	state.Reset()
	if _, _, err := Decode(state, omitWire); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState after packet reset, got %v", err)
	}
}

func TestDecodeIncompleteOnEmptyPmap(t *testing.T) {
	state := NewFieldTable()
	if _, _, err := Decode(state, nil); err != ErrIncomplete {
		t.Fatalf("expected ErrIncomplete on empty input, got %v", err)
	}
}

func TestFieldTableResetClearsValidity(t *testing.T) {
	state := NewFieldTable()
	state[FieldStockIdx].Valid = true
	state[FieldStockIdx].IntVal = 7
	state.Reset()
	if state[FieldStockIdx].Valid {
		t.Fatalf("expected Reset to clear Valid")
	}
	if state[FieldStockIdx].Operator != OpCopy {
		t.Fatalf("expected Reset to restore fixed operator, got %v", state[FieldStockIdx].Operator)
	}
}
