package feed_test

import (
	"testing"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/feed"
	"github.com/csi-fh/arcafeed/pub"
)

type recordingHooks struct {
	pub.NullHooks
	trades []*arcafeed.MessageBody
	alerts []arcafeed.AlertType
}

func (h *recordingHooks) OnTrade(m *arcafeed.MessageBody, status uint32) error {
	h.trades = append(h.trades, m)
	return nil
}

func (h *recordingHooks) OnFeedAlert(alertType arcafeed.AlertType, status uint32) error {
	h.alerts = append(h.alerts, alertType)
	return nil
}

func writeShortHeader(msgType arcafeed.MsgType, seq uint32, numBodies uint8) []byte {
	b := make([]byte, arcafeed.PacketHeaderSize)
	arcafeed.WriteBE16(b, 0, uint16(len(b)))
	arcafeed.WriteBE16(b, 2, uint16(msgType))
	arcafeed.WriteBE32(b, 4, seq)
	b[14] = numBodies
	return b
}

func tradeBody() []byte {
	b := make([]byte, arcafeed.LenTrade)
	arcafeed.WriteBE32(b, 0, 1) // source seq
	return b
}

func TestProcessPacketHeartbeatDropped(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	pkt := writeShortHeader(arcafeed.Heartbeat, 1, 0)
	g.ProcessPacket(arbiter.Primary, pkt)

	if len(hooks.trades) != 0 {
		t.Fatalf("expected heartbeat to be dropped silently")
	}
}

func TestProcessPacketRuntHeaderAlerts(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	g.ProcessPacket(arbiter.Primary, make([]byte, 4))

	if len(hooks.alerts) != 1 || hooks.alerts[0] != arcafeed.AlertRuntPacket {
		t.Fatalf("alerts = %v, want one AlertRuntPacket", hooks.alerts)
	}
	if g.Counters(arbiter.Primary).FormatErrors != 1 {
		t.Fatalf("format errors = %d, want 1", g.Counters(arbiter.Primary).FormatErrors)
	}
}

func TestProcessPacketPublishesTradeAndDuplicates(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	hdr := writeShortHeader(arcafeed.Trade, 5, 1)
	pkt := append(hdr, tradeBody()...)

	g.ProcessPacket(arbiter.Primary, pkt)
	if len(hooks.trades) != 1 {
		t.Fatalf("expected one trade published, got %d", len(hooks.trades))
	}

	g.ProcessPacket(arbiter.Secondary, pkt)
	if len(hooks.trades) != 1 {
		t.Fatalf("expected mirrored duplicate to be suppressed, got %d trades", len(hooks.trades))
	}
	if g.Counters(arbiter.Secondary).Duplicates != 1 {
		t.Fatalf("secondary duplicates = %d, want 1", g.Counters(arbiter.Secondary).Duplicates)
	}
}

func TestProcessPacketPublishedCounterAdvances(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	hdr := writeShortHeader(arcafeed.Trade, 5, 1)
	g.ProcessPacket(arbiter.Primary, append(hdr, tradeBody()...))

	if g.Counters(arbiter.Primary).Published != 1 {
		t.Fatalf("published = %d, want 1", g.Counters(arbiter.Primary).Published)
	}
}

func TestProcessPacketGapFillIncrementsRecovered(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	first := writeShortHeader(arcafeed.Trade, 5, 1)
	g.ProcessPacket(arbiter.Primary, append(first, tradeBody()...))

	ahead := writeShortHeader(arcafeed.Trade, 7, 1)
	g.ProcessPacket(arbiter.Primary, append(ahead, tradeBody()...))

	fill := writeShortHeader(arcafeed.Trade, 6, 1)
	g.ProcessPacket(arbiter.Primary, append(fill, tradeBody()...))

	if g.Counters(arbiter.Primary).Recovered != 1 {
		t.Fatalf("recovered = %d, want 1", g.Counters(arbiter.Primary).Recovered)
	}
	if g.Counters(arbiter.Secondary).Recovered != 1 {
		t.Fatalf("secondary recovered = %d, want 1 (shared window)", g.Counters(arbiter.Secondary).Recovered)
	}
}

func TestProcessPacketSequenceResetForcesCursors(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	hdr := writeShortHeader(arcafeed.Trade, 5, 1)
	g.ProcessPacket(arbiter.Primary, append(hdr, tradeBody()...))

	resetBody := make([]byte, arcafeed.LenSequenceNumberReset)
	arcafeed.WriteBE32(resetBody, 0, 100)
	resetHdr := writeShortHeader(arcafeed.SequenceNumberReset, 0, 1)
	g.ProcessPacket(arbiter.Primary, append(resetHdr, resetBody...))

	next := writeShortHeader(arcafeed.Trade, 100, 1)
	g.ProcessPacket(arbiter.Primary, append(next, tradeBody()...))
	if len(hooks.trades) != 2 {
		t.Fatalf("expected trade after reset to publish, total trades = %d", len(hooks.trades))
	}
}

func TestProcessPacketParseErrorEmitsAlert(t *testing.T) {
	hooks := &recordingHooks{}
	g := feed.NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	hdr := writeShortHeader(arcafeed.Trade, 1, 1)
	short := append(hdr, make([]byte, arcafeed.LenTrade-1)...)
	g.ProcessPacket(arbiter.Primary, short)

	if len(hooks.alerts) != 1 || hooks.alerts[0] != arcafeed.AlertParseError {
		t.Fatalf("alerts = %v, want one AlertParseError", hooks.alerts)
	}
}
