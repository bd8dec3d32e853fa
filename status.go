package arcafeed

// Status word bit layout (§4.G, confirmed exact against fh_notify_constants.h).
// Top two bits carry the line-id quadrant; the rest are flags plus a
// saturating 24-bit unrecoverable-message count in the low bits.
const (
	LineAC LineID = 0
	LineDJ LineID = 0x40000000
	LineKQ LineID = 0x80000000
	LineRZ LineID = 0xc0000000

	lineIDMask = 0xC0000000

	inSequenceSummary  = 0x20000000
	noPacketLossSummary = 0x10000000
	primaryFeedUp      = 0x8000000
	secondaryFeedUp    = 0x4000000
	rerequestFeedUp    = 0x2000000
	extremePacketLoss  = 0x1000000
	packetLossMask     = 0xffffff
)

// LineID is the top-two-bit quadrant identifying a feed group in a status
// word, one of LineAC/LineDJ/LineKQ/LineRZ.
type LineID uint32

// StatusInputs is the minimal snapshot a FeedGroup (or anything standing in
// for one) must provide to build a status word. Kept as its own type so the
// publication facade doesn't need to import the feed package.
type StatusInputs struct {
	LineID                LineID
	InSequence            bool
	PrimaryFeedUp         bool
	SecondaryFeedUp       bool
	RerequestFeedUp       bool
	UnrecoverableMessages uint32
}

// BuildStatusWord packs a StatusInputs snapshot into the 32-bit status word
// carried on every published message and alert.
func BuildStatusWord(in StatusInputs) uint32 {
	word := uint32(in.LineID) & lineIDMask

	count := in.UnrecoverableMessages
	if count > packetLossMask {
		count = packetLossMask
		word |= extremePacketLoss
	} else if count == 0 {
		word |= noPacketLossSummary
	}
	word |= count

	if in.InSequence {
		word |= inSequenceSummary
	}
	if in.PrimaryFeedUp {
		word |= primaryFeedUp
	}
	if in.SecondaryFeedUp {
		word |= secondaryFeedUp
	}
	if in.RerequestFeedUp {
		word |= rerequestFeedUp
	}
	return word
}
