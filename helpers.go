package arcafeed

import "bytes"

// TrimNullBytes removes trailing nulls from a byte slice and returns a string.
// Used for the fixed-width symbol and firm fields, which are null-padded on
// the wire.
func TrimNullBytes(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
