package arcafeed

// PacketHeader is the fixed 16-byte packet header every Arca multicast
// datagram starts with (big-endian, §3/§4.C). Book-refresh packets may carry
// the long-form 48-byte header instead, which extends these 16 bytes with
// the refresh fields.
type PacketHeader struct {
	MsgSize         uint16
	MsgType         MsgType
	MsgSeqNum       uint32
	SendTime        uint32
	ProductID       uint8
	RetransFlag     uint8
	NumBodyEntries  uint8

	// Refresh-extension fields, populated only when MsgType == BookRefresh
	// and the packet carries the long-form 48-byte header.
	SessionID              uint8
	SymbolIndex            uint16
	CurrentRefreshMsgSeq   uint16
	TotalRefreshMsgSeq     uint16
	LastSourceSeqNum       uint32
	LastMsgSeq             uint32
	Symbol                 [16]byte
}

const (
	msgSizeOffset        = 0
	msgTypeOffset        = 2
	msgNumOffset         = 4
	sendTimeOffset       = 8
	productIDOffset      = 12
	retransFlagOffset    = 13
	numBodiesOffset      = 14
	sessionIDOffset      = 17
	symbolIndexOffset    = 18
	// currentRefreshMsgSeqOffset and totalRefreshMsgSeqOffset use the
	// dedicated offsets from the constants table rather than reusing
	// symbolIndexOffset for both fields, which is what the original
	// parser's refresh-header path does; the distinct constants exist and
	// are unambiguous, and the shared-offset read looks like a
	// transcription slip rather than an intentional wire convention.
	currentRefreshMsgSeqOffset = 20
	totalRefreshMsgSeqOffset   = 22
	lastSourceSeqNumOffset     = 24
	lastMsgSeqOffset           = 28
	symbolOffset               = 32
)

// ParsePacketHeader reads the 16-byte short header from b. If hdr.MsgType
// turns out to be BookRefresh and b is at least RefreshHeaderSize long, the
// refresh extension fields are also populated.
func ParsePacketHeader(b []byte) (PacketHeader, error) {
	var hdr PacketHeader
	if len(b) < PacketHeaderSize {
		return hdr, truncatedError("ParsePacketHeader", PacketHeaderSize, len(b))
	}

	size, _ := ReadBE16(b, msgSizeOffset)
	typ, _ := ReadBE16(b, msgTypeOffset)
	seq, _ := ReadBE32(b, msgNumOffset)
	sendTime, _ := ReadBE32(b, sendTimeOffset)
	productID, _ := Read8(b, productIDOffset)
	retransFlag, _ := Read8(b, retransFlagOffset)
	numBodies, _ := Read8(b, numBodiesOffset)

	hdr.MsgSize = size
	hdr.MsgType = MsgType(typ)
	hdr.MsgSeqNum = seq
	hdr.SendTime = sendTime
	hdr.ProductID = productID
	hdr.RetransFlag = retransFlag
	hdr.NumBodyEntries = numBodies

	if hdr.MsgType == BookRefresh && len(b) >= RefreshHeaderSize {
		sessionID, _ := Read8(b, sessionIDOffset)
		symbolIndex, _ := ReadBE16(b, symbolIndexOffset)
		currentSeq, _ := ReadBE16(b, currentRefreshMsgSeqOffset)
		totalSeq, _ := ReadBE16(b, totalRefreshMsgSeqOffset)
		lastSourceSeq, _ := ReadBE32(b, lastSourceSeqNumOffset)
		lastMsgSeq, _ := ReadBE32(b, lastMsgSeqOffset)

		hdr.SessionID = sessionID
		hdr.SymbolIndex = symbolIndex
		hdr.CurrentRefreshMsgSeq = currentSeq
		hdr.TotalRefreshMsgSeq = totalSeq
		hdr.LastSourceSeqNum = lastSourceSeq
		hdr.LastMsgSeq = lastMsgSeq
		copy(hdr.Symbol[:], b[symbolOffset:symbolOffset+16])
	}

	return hdr, nil
}

// HeaderSizeFor returns the header length ParsePacketHeader will actually
// consume for a packet whose type is already known from a short peek.
func HeaderSizeFor(msgType MsgType, available int) int {
	if msgType == BookRefresh && available >= RefreshHeaderSize {
		return RefreshHeaderSize
	}
	return PacketHeaderSize
}
