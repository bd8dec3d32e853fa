package arcafeed

// MsgType identifies an Arca multicast message by its exchange-assigned (or,
// for ALERT/PACKET_LOSS, CSI-internal) numeric code.
type MsgType uint16

const (
	SequenceNumberReset    MsgType = 1
	Heartbeat              MsgType = 2
	MessageUnavailable     MsgType = 5
	RetransmissionResponse MsgType = 10
	RetransmissionRequest  MsgType = 20
	HeartbeatResponse      MsgType = 24
	BookRefreshRequest     MsgType = 30
	ImbalanceRefreshReq    MsgType = 31
	BookRefresh            MsgType = 32
	ImbalanceRefresh       MsgType = 33
	SymbolMappingRequest   MsgType = 34
	SymbolMapping          MsgType = 35
	SymbolClear            MsgType = 36
	FirmMapping            MsgType = 37
	FirmMappingRequest     MsgType = 38
	Orders                 MsgType = 99
	AddOrder               MsgType = 100
	ModifyOrder            MsgType = 101
	DeleteOrder            MsgType = 102
	Imbalance              MsgType = 103
	Trade                  MsgType = 220
	TradeCancel            MsgType = 221
	TradeCorrection        MsgType = 222

	// Alert is a CSI-internal synthetic type, never seen on the wire.
	Alert MsgType = 2
	// PacketLoss is a CSI-internal synthetic type, never seen on the wire.
	PacketLoss MsgType = 3
)

// Declared minimum body lengths, used for the runt check in the binary
// parser (§4.C). AB_MSG_HDR_SIZE (16) and AB_REFRESH_MSG_HDR_SIZE (48) cover
// the packet header itself; these are body-only lengths.
const (
	LenSequenceNumberReset = 4
	LenMessageUnavailable  = 8
	LenSymbolClear         = 8
	LenSymbolMapping       = 20
	LenFirmMapping         = 12
	LenImbalanceRefresh    = 36
	LenBookRefresh         = 28
	LenAddOrder            = 32
	LenModifyOrder         = 32
	LenDeleteOrder         = 24
	LenImbalance           = 36
	LenTrade               = 52
	LenTradeCancel         = 32
	LenTradeCorrection     = 56
)

// PacketHeaderSize is the fixed short-form packet header length.
const PacketHeaderSize = 16

// RefreshHeaderSize is the long-form header used by book-refresh packets.
const RefreshHeaderSize = 48

// Exchange identifies which equities segment a line carries.
type Exchange uint8

const (
	ExchangeListed    Exchange = 0
	ExchangeOTC       Exchange = 1
	ExchangeETF       Exchange = 2
	ExchangeBB        Exchange = 3
	ExchangeArcaTrade Exchange = 4
)

// Side is the buy/sell side of an order.
type Side uint8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

// AlertType tags a feed-level alert emitted through the publication facade.
type AlertType int

const (
	AlertOrderingStateChange AlertType = 1
	AlertStrictOrderingState AlertType = 2
	AlertLostFeed            AlertType = 3
	AlertLostPackets         AlertType = 4
	AlertExchangeLostPackets AlertType = 5
	AlertParseError          AlertType = 10
	AlertRuntPacket          AlertType = 11
)

// MissingRange is the number of sequence numbers the sliding missing-window
// bitmap can track: 256 * 128 double-words of storage, 64 bits each.
const MissingRange = 256 * 128 * 64

// GapSizeTooBig is the gap size (in the original's retransmission-request
// design) that would trigger switching from request-based to refresh-based
// recovery. The retransmission-request state machine itself is out of scope
// (§1 Non-goals); nothing in this repository references the constant,
// including the arbiter's gap handling.
const GapSizeTooBig = 20

// MaxSymbolLength and MaxFirmLength are the ArcaBook reference-table string
// widths, excluding the NUL terminator the original C carries.
const (
	MaxSymbolLength = 16
	MaxFirmLength   = 5
)

// MakePrice converts an Arca (scale, value) price pair into a fixed-point
// integer scaled to 10^-6. shift = 6-scale; value is multiplied by 10^shift
// for shift in [1,6], returned unchanged at scale 6. The wire format never
// produces scale > 6, so no special-casing exists for it here, matching the
// original.
func MakePrice(scale uint8, value uint32) uint64 {
	result := uint64(value)
	shift := 6 - int(scale)
	switch {
	case shift <= 0:
		return result
	case shift == 1:
		return result * 10
	case shift == 2:
		return result * 100
	case shift == 3:
		return result * 1000
	case shift == 4:
		return result * 10000
	case shift == 5:
		return result * 100000
	default:
		return result * 1000000
	}
}
