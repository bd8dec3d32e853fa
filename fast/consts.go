// Package fast implements the FAST (FIX Adapted for STreaming) field-level
// decompressor used by the Arca multicast feeds (§4.B).
package fast

// FieldID indexes the 14-slot field state table. MSG_TYPE is always first;
// the remaining ids are reused across message types with different meanings
// (STOCK_IDX/SESSION_ID etc. keep one meaning, BITMAP and a few others are
// reused per message kind, matching the wire format's own field reuse).
type FieldID int

const (
	FieldMsgType FieldID = iota
	FieldStockIdx
	FieldSequence
	FieldTime
	FieldOrderID
	FieldVolume
	FieldPrice
	FieldPriceScale
	FieldBuySell
	FieldExchID
	FieldSecurityType
	FieldFirmID
	FieldSessionID
	FieldBitmap
	numFields
)

// Operator is the per-field reconstruction rule applied when a field's pmap
// bit is clear.
type Operator int

const (
	OpNone Operator = iota
	OpCopy
	OpIncr
)

// operatorTable is the fixed operator assignment for each field slot (§3).
// SEQUENCE uses INCR; MSG_TYPE and BITMAP use NONE; everything else COPY.
var operatorTable = [numFields]Operator{
	FieldMsgType:      OpNone,
	FieldStockIdx:     OpCopy,
	FieldSequence:     OpIncr,
	FieldTime:         OpCopy,
	FieldOrderID:      OpCopy,
	FieldVolume:       OpCopy,
	FieldPrice:        OpCopy,
	FieldPriceScale:   OpCopy,
	FieldBuySell:      OpCopy,
	FieldExchID:       OpCopy,
	FieldSecurityType: OpCopy,
	FieldFirmID:       OpCopy,
	FieldSessionID:    OpCopy,
	FieldBitmap:       OpNone,
}

// MaxStrLen is the longest ASCII field value the decoder can remember across
// a COPY. Longer strings are still consumed off the wire but invalidate the
// copy-encoded state for that slot.
const MaxStrLen = 64

// MaxFastMsg and MinFastMsg bound a single FAST-encoded message's length.
const (
	MaxFastMsg = 128
	MinFastMsg = 2
)

// MaxPmapBytes is the design maximum pmap length: ceil((numFields-1)/7)+1.
const MaxPmapBytes = 3
