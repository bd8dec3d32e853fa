package admin

import (
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/feed"
	"github.com/csi-fh/arcafeed/pub"
)

func TestServerDispatch(t *testing.T) {
	stopped := false
	reg := NewRegistry(func() { stopped = true })
	g := feed.NewFeedGroup("ARCA_LISTED_AC", arcafeed.LineAC, false, pub.New(nil), nil)
	reg.Register(g)

	srv := &Server{registry: reg}

	resp := srv.dispatch(Request{Type: "GETVER_REQ"})
	if resp.Type != "GETVER_RESP" || resp.Version != Version {
		t.Fatalf("GETVER_REQ response = %+v", resp)
	}

	resp = srv.dispatch(Request{Type: "STATS_REQ"})
	if len(resp.Stats) != 1 || resp.Stats[0].Name != "ARCA_LISTED_AC" {
		t.Fatalf("STATS_REQ response = %+v", resp)
	}

	resp = srv.dispatch(Request{Type: "ACTION_REQ", ActionType: "STOP"})
	if resp.Status != "ok" || !stopped {
		t.Fatalf("ACTION_REQ STOP response = %+v, stopped = %v", resp, stopped)
	}

	resp = srv.dispatch(Request{Type: "ACTION_REQ", ActionType: "bogus"})
	if resp.Error == "" {
		t.Fatalf("expected error for unknown action_type, got %+v", resp)
	}
}

func TestRetransmissionHandlerStub(t *testing.T) {
	var h NullRetransmissionHandler
	if err := h.StartBookRefresh(1, 0); err != ErrRetransmissionNotImplemented {
		t.Fatalf("StartBookRefresh err = %v, want %v", err, ErrRetransmissionNotImplemented)
	}
	if err := h.StopBookRefresh(1, 0); err != ErrRetransmissionNotImplemented {
		t.Fatalf("StopBookRefresh err = %v, want %v", err, ErrRetransmissionNotImplemented)
	}
}

func TestLineStatsJSONRoundTrip(t *testing.T) {
	stats := LineStats{Name: "ARCA_LISTED_AC", Primary: feed.Counters{PacketsReceived: 5}}
	b, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got LineStats
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Name != stats.Name || got.Primary.PacketsReceived != 5 {
		t.Fatalf("round trip = %+v", got)
	}
}
