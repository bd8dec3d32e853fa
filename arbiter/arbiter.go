package arbiter

// Side identifies which half of a mirrored feed pair a packet arrived on.
type Side int

const (
	Primary Side = iota
	Secondary
)

// Decision is the three-valued outcome of NeedToPublish.
type Decision int

const (
	Publish Decision = iota
	Duplicate
	ResetAndPublish
)

func (d Decision) String() string {
	switch d {
	case Publish:
		return "Publish"
	case Duplicate:
		return "Duplicate"
	case ResetAndPublish:
		return "ResetAndPublish"
	default:
		return "Unknown"
	}
}

// Notifier receives the arbiter's state-transition, loss, and recovery
// alerts. Passing a nil Notifier is allowed; it is then never consulted.
type Notifier interface {
	// NotifyPacketLoss reports that sequences [begin, end] (inclusive) have
	// been declared permanently lost.
	NotifyPacketLoss(begin, end uint64)
	// NotifyStateChange reports an InSequence <-> OutOfSequence transition.
	NotifyStateChange(inSequence bool)
	// NotifyRecovered reports that one previously-missing sequence number
	// was filled in and published, i.e. removed from the window while
	// OutOfSequence.
	NotifyRecovered()
}

// Arbiter is the per-line duplicate/gap detector spanning a primary and
// secondary feed pair (§4.D).
type Arbiter struct {
	primaryExpected   uint64
	secondaryExpected uint64
	primaryInit       bool
	secondaryInit     bool

	inSequence bool
	window     *Window

	notify Notifier
}

// New returns an Arbiter in its start state: in_sequence true, empty window.
func New(notify Notifier) *Arbiter {
	return &Arbiter{inSequence: true, window: NewWindow(0), notify: notify}
}

// InSequence reports the arbiter's current InSequence/OutOfSequence state.
func (a *Arbiter) InSequence() bool { return a.inSequence }

// MissingCount is the number of sequence numbers currently tracked as
// missing in the sliding window.
func (a *Arbiter) MissingCount() int { return a.window.Count() }

func (a *Arbiter) cursors(side Side) (my, other *uint64, myInit, otherInit *bool) {
	if side == Primary {
		return &a.primaryExpected, &a.secondaryExpected, &a.primaryInit, &a.secondaryInit
	}
	return &a.secondaryExpected, &a.primaryExpected, &a.secondaryInit, &a.primaryInit
}

// Reset forces both expected-sequence cursors to nextSeq, clears the
// missing window, and sets in_sequence true. It implements the
// sequence-number-reset message's bypass of ordinary arbitration (§4.D):
// the caller never calls NeedToPublish for a reset message; it calls Reset
// and always publishes.
func (a *Arbiter) Reset(nextSeq uint64) Decision {
	a.primaryExpected = nextSeq
	a.secondaryExpected = nextSeq
	a.primaryInit = true
	a.secondaryInit = true
	wasInSequence := a.inSequence
	a.inSequence = true
	a.window.Reset(nextSeq)
	if !wasInSequence && a.notify != nil {
		a.notify.NotifyStateChange(true)
	}
	return ResetAndPublish
}

// NeedToPublish is the arbiter's single public operation (§4.D), called
// once per packet (not per body). side/seq identify which feed the packet
// arrived on and its header sequence number.
func (a *Arbiter) NeedToPublish(side Side, seq uint64) Decision {
	my, other, myInit, otherInit := a.cursors(side)
	if !*myInit {
		*my = seq
		*myInit = true
		if !*otherInit {
			// Guess the mirror's cursor at this side's first sequence until
			// the mirror is actually observed; its own first packet
			// overwrites this via the myInit branch above.
			*other = seq
		}
	}

	if a.inSequence {
		return a.fastPath(my, other, seq)
	}
	return a.slowPath(my, other, seq)
}

func (a *Arbiter) fastPath(my, other *uint64, seq uint64) Decision {
	switch {
	case seq == *my:
		*my++
		if seq >= *other {
			return Publish
		}
		return Duplicate
	case seq < *my:
		return Duplicate
	case seq == *other:
		*my = seq + 1
		return Publish
	case seq < *other:
		*my = seq + 1
		return Duplicate
	default:
		mostAdvanced := *my
		if *other > mostAdvanced {
			mostAdvanced = *other
		}
		gap := seq - mostAdvanced
		a.firstGap(mostAdvanced, gap, seq)
		*my = seq + 1
		return Publish
	}
}

// firstGap transitions InSequence -> OutOfSequence, opening the missing
// window over the newly discovered gap.
func (a *Arbiter) firstGap(mostAdvanced, gap, seq uint64) {
	if gap > MissingRange {
		newStart := seq - MissingRange/2
		if a.notify != nil {
			a.notify.NotifyPacketLoss(mostAdvanced, newStart-1)
		}
		a.window.Reset(newStart)
		a.window.InsertRange(newStart, seq-newStart)
	} else {
		a.window.Reset(mostAdvanced)
		a.window.InsertRange(mostAdvanced, gap)
	}
	a.inSequence = false
	if a.notify != nil {
		a.notify.NotifyStateChange(false)
	}
}

func (a *Arbiter) slowPath(my, other *uint64, seq uint64) Decision {
	if seq >= a.window.Base()+MissingRange {
		if a.notify != nil {
			a.notify.NotifyPacketLoss(a.window.Lowest(), a.window.Highest())
		}
		a.window.Reset(seq)
		*my = seq
		a.inSequence = true
		if a.notify != nil {
			a.notify.NotifyStateChange(true)
		}
		return a.fastPath(my, other, seq)
	}

	if seq == *my && seq >= *other {
		*my++
		return Publish
	}
	if seq >= *my && seq == *other {
		*my = seq + 1
		return Publish
	}
	if seq > *my && seq > *other {
		return a.secondGap(my, other, seq)
	}
	if a.window.Contains(seq) {
		a.window.Remove(seq)
		if a.notify != nil {
			a.notify.NotifyRecovered()
		}
		if a.window.Empty() {
			a.inSequence = true
			if a.notify != nil {
				a.notify.NotifyStateChange(true)
			}
		}
		if seq >= *my {
			*my = seq + 1
		}
		return Publish
	}
	return Duplicate
}

// secondGap handles a gap discovered while already OutOfSequence.
func (a *Arbiter) secondGap(my, other *uint64, seq uint64) Decision {
	mostAdvanced := *my
	if *other > mostAdvanced {
		mostAdvanced = *other
	}
	gap := seq - mostAdvanced

	if seq < a.window.Base()+MissingRange {
		a.window.InsertRange(mostAdvanced, gap)
	} else {
		if a.notify != nil {
			a.notify.NotifyPacketLoss(a.window.Lowest(), a.window.Highest())
		}
		newStart := seq - MissingRange/2
		a.window.Reset(newStart)
		a.window.InsertRange(newStart, seq-newStart)
	}
	*my = seq + 1
	return Publish
}
