package feed

import (
	"github.com/csi-fh/arcafeed"
	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/fast"
)

// ProcessPacket runs one datagram through header parse, arbitration,
// optional FAST decode, and per-body publication (§4.E). side identifies
// which socket of the pair the packet arrived on; raw is the datagram as
// received (still FAST-compacted when g.FastMode).
func (g *FeedGroup) ProcessPacket(side arbiter.Side, raw []byte) {
	c := g.counters(side)
	g.mu.Lock()
	c.PacketsReceived++
	c.BytesReceived += uint64(len(raw))
	g.mu.Unlock()
	g.setFeedUp(side)

	hdr, err := arcafeed.ParsePacketHeader(raw)
	if err != nil {
		g.mu.Lock()
		c.FormatErrors++
		g.mu.Unlock()
		g.alertRunt()
		return
	}

	if hdr.MsgType == arcafeed.Heartbeat {
		return
	}

	if hdr.MsgType == arcafeed.SequenceNumberReset {
		g.handleSequenceReset(side, hdr, raw)
		return
	}

	decision := g.arb.NeedToPublish(side, uint64(hdr.MsgSeqNum))
	if decision == arbiter.Duplicate {
		g.mu.Lock()
		c.Duplicates++
		g.mu.Unlock()
		return
	}

	headerSize := arcafeed.HeaderSizeFor(hdr.MsgType, len(raw))
	body := raw[headerSize:]

	if g.FastMode {
		g.processFastPacket(side, hdr, body)
		return
	}
	g.processPlainPacket(side, hdr, body)
}

// handleSequenceReset bypasses ordinary arbitration: a type-1 message
// always forces both cursors forward and always publishes (§4.D).
func (g *FeedGroup) handleSequenceReset(side arbiter.Side, hdr arcafeed.PacketHeader, raw []byte) {
	headerSize := arcafeed.HeaderSizeFor(hdr.MsgType, len(raw))
	body := raw[headerSize:]
	rec, _, err := arcafeed.ParseBody(arcafeed.SequenceNumberReset, body)
	if err != nil {
		g.alertParseError(hdr, 0)
		return
	}
	g.arb.Reset(uint64(rec.NextSeqNumber))
	status := g.statusWord(g.unrecoverableSnapshot())
	dispatchErr := g.facade.Dispatch(&rec, status, false)
	if dispatchErr != nil {
		g.logger.Error("[FeedGroup.ProcessPacket]", "line", g.Name, "err", dispatchErr)
	}

	c := g.counters(side)
	g.mu.Lock()
	c.MessagesReceived++
	if dispatchErr == nil {
		c.Published++
	}
	g.mu.Unlock()
	g.flush()
}

// processPlainPacket walks an already-binary packet body by body (no FAST
// layer), per §4.C/§4.E step 5.
func (g *FeedGroup) processPlainPacket(side arbiter.Side, hdr arcafeed.PacketHeader, body []byte) {
	c := g.counters(side)
	status := g.statusWord(g.unrecoverableSnapshot())

	remaining := body
	bodiesProcessed := 0
	for int(hdr.NumBodyEntries) == 0 || bodiesProcessed < int(hdr.NumBodyEntries) {
		if len(remaining) == 0 {
			break
		}
		var rec arcafeed.MessageBody
		var n int
		var err error
		if hdr.MsgType == arcafeed.Orders {
			rec, n, err = arcafeed.ParseOrders(remaining)
		} else {
			rec, n, err = arcafeed.ParseBody(hdr.MsgType, remaining)
		}
		if err != nil || n == 0 {
			g.mu.Lock()
			c.FormatErrors++
			g.mu.Unlock()
			g.alertParseError(hdr, len(remaining))
			break
		}

		first := hdr.MsgType == arcafeed.BookRefresh && bodiesProcessed == 0 && hdr.CurrentRefreshMsgSeq == 1
		dispatchErr := g.facade.Dispatch(&rec, status, first)
		if dispatchErr != nil {
			g.logger.Error("[FeedGroup.ProcessPacket]", "line", g.Name, "err", dispatchErr)
		}

		g.mu.Lock()
		c.MessagesReceived++
		if dispatchErr == nil {
			c.Published++
		}
		g.mu.Unlock()

		remaining = remaining[n:]
		bodiesProcessed++
	}
	g.flush()
}

// processFastPacket decodes a fast_mode packet's bodies one at a time,
// resetting the field-state table once per packet and stopping on the
// first decode error (§4.E step 4).
func (g *FeedGroup) processFastPacket(side arbiter.Side, hdr arcafeed.PacketHeader, body []byte) {
	c := g.counters(side)
	status := g.statusWord(g.unrecoverableSnapshot())
	g.fastState.Reset()

	remaining := body
	for i := 0; i < int(hdr.NumBodyEntries); i++ {
		if len(remaining) == 0 {
			break
		}
		dec, n, err := fast.Decode(g.fastState, remaining)
		if err != nil {
			g.mu.Lock()
			c.FormatErrors++
			g.mu.Unlock()
			g.alertParseError(hdr, len(remaining))
			break
		}

		rec := decodedToBody(dec)
		first := hdr.MsgType == arcafeed.BookRefresh && i == 0 && hdr.CurrentRefreshMsgSeq == 1
		dispatchErr := g.facade.Dispatch(&rec, status, first)
		if dispatchErr != nil {
			g.logger.Error("[FeedGroup.ProcessPacket]", "line", g.Name, "err", dispatchErr)
		}

		g.mu.Lock()
		c.MessagesReceived++
		if dispatchErr == nil {
			c.Published++
		}
		g.mu.Unlock()
		remaining = remaining[n:]
	}
	g.flush()
}

// decodedToBody lifts a FAST-decoded record into the same MessageBody shape
// the binary parser produces, so the publication facade never needs to know
// whether a line runs fast_mode.
func decodedToBody(dec *fast.Decoded) arcafeed.MessageBody {
	var m arcafeed.MessageBody
	m.MsgType = arcafeed.MsgType(dec.MsgType)
	m.MsgSeqNum = dec.Sequence
	m.SourceTime = dec.Time
	m.OrderID = dec.OrderID
	m.Volume = dec.Volume
	m.PriceNumerator = dec.Price
	m.PriceScaleCode = uint8(dec.PriceScale)
	m.Side = arcafeed.Side(dec.BuySell)
	m.ExchangeID = uint8(dec.ExchID)
	m.SecurityType = uint8(dec.SecurityType)
	m.FirmIndex = uint16(dec.FirmID)
	m.SessionID = uint8(dec.SessionID)
	m.SymbolIndex = uint16(dec.StockIdx)
	m.TotalImbalance = dec.TotalImbalance
	m.AuctionType = uint8(dec.AuctionType)
	m.AuctionTime = uint16(dec.AuctionTime)
	m.MarketImbalance = dec.MarketImbalance
	m.Price = arcafeed.MakePrice(m.PriceScaleCode, m.PriceNumerator)
	if dec.SymbolStr != nil {
		copy(m.Symbol[:], dec.SymbolStr)
	}
	if dec.FirmStr != nil {
		copy(m.Firm[:], dec.FirmStr)
	}
	return m
}

func (g *FeedGroup) flush() {
	if err := g.facade.Flush(); err != nil {
		g.logger.Error("[FeedGroup.Flush]", "line", g.Name, "err", err)
	}
}

func (g *FeedGroup) alertRunt() {
	status := g.statusWord(g.unrecoverableSnapshot())
	g.logger.Warn("[FeedGroup.ProcessPacket]", "line", g.Name, "alert", "runt packet")
	if err := g.facade.DispatchFeedAlert(arcafeed.AlertRuntPacket, status); err != nil {
		g.logger.Error("[FeedGroup.ProcessPacket]", "line", g.Name, "err", err)
	}
}

func (g *FeedGroup) alertParseError(hdr arcafeed.PacketHeader, remaining int) {
	status := g.statusWord(g.unrecoverableSnapshot())
	g.logger.Warn("[FeedGroup.ProcessPacket]", "line", g.Name, "alert", "parse error",
		"seq", hdr.MsgSeqNum, "num_bodies", hdr.NumBodyEntries, "remaining", remaining)
	if err := g.facade.DispatchFeedAlert(arcafeed.AlertParseError, status); err != nil {
		g.logger.Error("[FeedGroup.ProcessPacket]", "line", g.Name, "err", err)
	}
}
