package feed

import (
	"testing"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/pub"
)

type alertRecorder struct {
	pub.NullHooks
	lossBegin, lossEnd []uint64
	feedAlerts         []arcafeed.AlertType
}

func (h *alertRecorder) OnPacketLossAlert(begin, end uint64, status uint32) error {
	h.lossBegin = append(h.lossBegin, begin)
	h.lossEnd = append(h.lossEnd, end)
	return nil
}

func (h *alertRecorder) OnFeedAlert(alertType arcafeed.AlertType, status uint32) error {
	h.feedAlerts = append(h.feedAlerts, alertType)
	return nil
}

func TestFeedGroupNotifyPacketLossAccumulatesUnrecoverable(t *testing.T) {
	hooks := &alertRecorder{}
	g := NewFeedGroup("TEST", arcafeed.LineDJ, false, pub.New(hooks), nil)

	g.NotifyPacketLoss(10, 19)
	if g.unrecoverableSnapshot() != 10 {
		t.Fatalf("unrecoverable = %d, want 10", g.unrecoverableSnapshot())
	}
	if len(hooks.lossBegin) != 1 || hooks.lossBegin[0] != 10 || hooks.lossEnd[0] != 19 {
		t.Fatalf("loss alert = begin %v end %v", hooks.lossBegin, hooks.lossEnd)
	}
	if g.Counters(arbiter.Primary).Lost != 10 || g.Counters(arbiter.Secondary).Lost != 10 {
		t.Fatalf("lost counters = primary %d secondary %d, want 10/10",
			g.Counters(arbiter.Primary).Lost, g.Counters(arbiter.Secondary).Lost)
	}

	g.NotifyPacketLoss(20, 24)
	if g.unrecoverableSnapshot() != 15 {
		t.Fatalf("unrecoverable after second loss = %d, want 15", g.unrecoverableSnapshot())
	}
	if g.Counters(arbiter.Primary).Lost != 15 {
		t.Fatalf("lost after second loss = %d, want 15", g.Counters(arbiter.Primary).Lost)
	}
}

func TestFeedGroupNotifyRecoveredIncrementsBothSides(t *testing.T) {
	g := NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(nil), nil)
	g.NotifyRecovered()
	if g.Counters(arbiter.Primary).Recovered != 1 || g.Counters(arbiter.Secondary).Recovered != 1 {
		t.Fatalf("recovered counters = primary %d secondary %d, want 1/1",
			g.Counters(arbiter.Primary).Recovered, g.Counters(arbiter.Secondary).Recovered)
	}
}

func TestFeedGroupNotifyStateChangeEmitsAlert(t *testing.T) {
	hooks := &alertRecorder{}
	g := NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(hooks), nil)

	g.NotifyStateChange(false)
	if len(hooks.feedAlerts) != 1 || hooks.feedAlerts[0] != arcafeed.AlertOrderingStateChange {
		t.Fatalf("feed alerts = %v", hooks.feedAlerts)
	}
}

func TestFeedGroupClearStats(t *testing.T) {
	g := NewFeedGroup("TEST", arcafeed.LineAC, false, pub.New(nil), nil)
	g.ProcessPacket(arbiter.Primary, make([]byte, 4))
	if g.Counters(arbiter.Primary).PacketsReceived == 0 {
		t.Fatalf("expected a packet counted before clearing")
	}
	g.ClearStats()
	if g.Counters(arbiter.Primary).PacketsReceived != 0 {
		t.Fatalf("expected counters cleared")
	}
}

func TestFeedGroupStatusWordLineID(t *testing.T) {
	g := NewFeedGroup("TEST", arcafeed.LineKQ, false, pub.New(nil), nil)
	word := g.statusWord(0)
	if arcafeed.LineID(word) & arcafeed.LineID(0xC0000000) != arcafeed.LineKQ {
		t.Fatalf("status word line-id quadrant mismatch: %#x", word)
	}
}
