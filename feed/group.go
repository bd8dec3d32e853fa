// Package feed owns the per-line receive state and the packet-processing
// and receive-loop logic that drives it (§3, §4.E, §4.F).
package feed

import (
	"log/slog"
	"sync"

	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/fast"
	"github.com/csi-fh/arcafeed/pub"
)

// Counters are the per-side packet/byte/message/error tallies a FeedGroup
// maintains (§3). Lost and Recovered are credited identically to both
// sides: the missing-sequence window they derive from is a single per-line
// resource, not one per side.
type Counters struct {
	PacketsReceived  uint64
	BytesReceived    uint64
	MessagesReceived uint64
	FormatErrors     uint64
	Duplicates       uint64
	Lost             uint64
	Recovered        uint64
	Published        uint64
}

// FeedGroup is the receive state for one logical line (e.g.
// "ARCA_LISTED_AC"): its arbiter, FAST field-state table, feature flags,
// and per-side counters. It owns no sockets itself — Receiver owns those
// and hands FeedGroup raw packet bytes (§3 separates "collaborator
// interface" socket ownership from per-line state).
type FeedGroup struct {
	Name   string
	LineID arcafeed.LineID

	FastMode    bool
	ProcessHalt bool

	arb       *arbiter.Arbiter
	fastState *fast.FieldTable
	facade    *pub.Facade
	logger    *slog.Logger

	mu            sync.Mutex
	primary       Counters
	secondary     Counters
	unrecoverable uint32

	primaryUp, secondaryUp bool
}

// NewFeedGroup builds a FeedGroup for one line. facade may be pub.New(nil)
// if the embedder has not registered hooks yet.
func NewFeedGroup(name string, lineID arcafeed.LineID, fastMode bool, facade *pub.Facade, logger *slog.Logger) *FeedGroup {
	if logger == nil {
		logger = slog.Default()
	}
	g := &FeedGroup{
		Name:      name,
		LineID:    lineID,
		FastMode:  fastMode,
		fastState: fast.NewFieldTable(),
		facade:    facade,
		logger:    logger,
	}
	g.arb = arbiter.New(g)
	return g
}

// Counters returns a snapshot copy of a side's counters.
func (g *FeedGroup) Counters(side arbiter.Side) Counters {
	g.mu.Lock()
	defer g.mu.Unlock()
	if side == arbiter.Primary {
		return g.primary
	}
	return g.secondary
}

// ClearStats zeroes both sides' counters, backing the admin ACTION_REQ
// CLRSTATS command (§6).
func (g *FeedGroup) ClearStats() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.primary = Counters{}
	g.secondary = Counters{}
}

func (g *FeedGroup) counters(side arbiter.Side) *Counters {
	if side == arbiter.Primary {
		return &g.primary
	}
	return &g.secondary
}

// setFeedUp marks one side up (the first packet ever seen on it) for the
// status-word's feed-up bits.
func (g *FeedGroup) setFeedUp(side arbiter.Side) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if side == arbiter.Primary {
		g.primaryUp = true
	} else {
		g.secondaryUp = true
	}
}

// statusWord builds the 32-bit status word from the group's current state
// (§4.G step 2). unrecoverable is the cumulative unrecoverable-message
// count the caller is tracking (permanent-loss range sizes accumulated
// over the group's lifetime).
func (g *FeedGroup) statusWord(unrecoverable uint32) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return arcafeed.BuildStatusWord(arcafeed.StatusInputs{
		LineID:                g.LineID,
		InSequence:            g.arb.InSequence(),
		PrimaryFeedUp:         g.primaryUp,
		SecondaryFeedUp:       g.secondaryUp,
		RerequestFeedUp:       false,
		UnrecoverableMessages: unrecoverable,
	})
}

// NotifyPacketLoss implements arbiter.Notifier, tracking the cumulative
// unrecoverable-message count fed into the status word and emitting a
// packet-loss alert through the publication facade. The missing-sequence
// window is a single per-line resource, not one per side (§3), so a
// declared-lost range is credited to both sides' Lost counters equally.
func (g *FeedGroup) NotifyPacketLoss(begin, end uint64) {
	lost := end - begin + 1
	g.mu.Lock()
	g.unrecoverable += uint32(lost)
	g.primary.Lost += lost
	g.secondary.Lost += lost
	status := arcafeed.BuildStatusWord(arcafeed.StatusInputs{
		LineID:                g.LineID,
		InSequence:            g.arb.InSequence(),
		PrimaryFeedUp:         g.primaryUp,
		SecondaryFeedUp:       g.secondaryUp,
		UnrecoverableMessages: g.unrecoverable,
	})
	g.mu.Unlock()

	g.logger.Warn("[FeedGroup.NotifyPacketLoss]", "line", g.Name, "begin", begin, "end", end, "lost", lost)
	if err := g.facade.DispatchPacketLoss(begin, end, status); err != nil {
		g.logger.Error("[FeedGroup.NotifyPacketLoss]", "line", g.Name, "err", err)
	}
}

// NotifyRecovered implements arbiter.Notifier, counting one previously-gap
// sequence filled in and published. Like NotifyPacketLoss, it credits both
// sides since the missing-sequence window is shared per line, not per side.
func (g *FeedGroup) NotifyRecovered() {
	g.mu.Lock()
	g.primary.Recovered++
	g.secondary.Recovered++
	g.mu.Unlock()
}

// NotifyStateChange implements arbiter.Notifier, emitting an
// ordering-state-change feed alert (§4.D state-transition summary).
func (g *FeedGroup) NotifyStateChange(inSequence bool) {
	status := g.statusWord(g.unrecoverableSnapshot())
	g.logger.Info("[FeedGroup.NotifyStateChange]", "line", g.Name, "in_sequence", inSequence)
	if err := g.facade.DispatchFeedAlert(arcafeed.AlertOrderingStateChange, status); err != nil {
		g.logger.Error("[FeedGroup.NotifyStateChange]", "line", g.Name, "err", err)
	}
}

func (g *FeedGroup) unrecoverableSnapshot() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unrecoverable
}
