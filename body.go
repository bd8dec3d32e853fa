package arcafeed

// MessageBody is the discriminated record carrying the superset of fields
// across every ArcaBook and Arca-Trade message kind (§3). The binary parser
// populates only the fields relevant to MsgType; callers switch on MsgType
// before reading type-specific fields.
type MessageBody struct {
	MsgType   MsgType
	MsgSeqNum uint32

	SourceSeqNum uint32
	SourceTime   uint32

	OrderID uint32
	Volume  uint32

	Price          uint64
	PriceNumerator uint32
	PriceScaleCode uint8

	Side          Side
	ExchangeID    uint8
	SecurityType  uint8
	FirmIndex     uint16
	SessionID     uint8
	SymbolIndex   uint16

	Symbol [17]byte
	Firm   [6]byte

	TotalImbalance  uint32
	MarketImbalance uint32
	AuctionType     uint8
	AuctionTime     uint16

	NextSeqNumber  uint32
	BeginSeqNumber uint32
	EndSeqNumber   uint32

	BuySideLinkID      uint32
	SellSideLinkID     uint32
	QuoteLinkID        uint32
	OriginalSrcSeqNum  uint32
	TradeCond          [4]byte

	PrimaryOrSecondary int
	AlertType          AlertType
	Status             uint32
}

// SymbolString returns the trimmed ASCII symbol, when MsgType populates one.
func (m *MessageBody) SymbolString() string {
	return TrimNullBytes(m.Symbol[:])
}

// FirmString returns the trimmed ASCII firm id, when MsgType populates one.
func (m *MessageBody) FirmString() string {
	return TrimNullBytes(m.Firm[:])
}
