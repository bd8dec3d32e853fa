package fast

// FieldState holds one field slot's remembered value, used to reconstruct a
// COPY or INCR field whose pmap bit is clear on the wire.
type FieldState struct {
	ID       FieldID
	Valid    bool
	Operator Operator
	Size     int
	IntVal   uint32
	StrVal   [MaxStrLen]byte
}

// FieldTable is the 14-slot field state table carried per feed group. It
// must be reset at the start of every UDP packet (not every message) so
// COPY/INCR shorthands apply within a packet's messages but never across
// packets.
type FieldTable [numFields]FieldState

// Reset restores every slot to its fixed operator with Valid=false,
// matching fastStateInit in the reference decoder.
func (t *FieldTable) Reset() {
	for id := FieldID(0); id < numFields; id++ {
		t[id] = FieldState{ID: id, Operator: operatorTable[id]}
	}
}

// NewFieldTable returns a FieldTable already reset.
func NewFieldTable() *FieldTable {
	t := &FieldTable{}
	t.Reset()
	return t
}
