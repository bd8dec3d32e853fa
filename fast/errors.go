package fast

import "fmt"

var (
	ErrIncomplete    = fmt.Errorf("fast: incomplete field")
	ErrInvalidField  = fmt.Errorf("fast: invalid field")
	ErrInvalidState  = fmt.Errorf("fast: invalid state for copy/incr reconstruction")
	ErrInvalidHeader = fmt.Errorf("fast: invalid pmap header")
	ErrInvalidLength = fmt.Errorf("fast: invalid length")
	ErrBufferTooSmall = fmt.Errorf("fast: buffer too small")
	ErrInvalidAscii  = fmt.Errorf("fast: invalid ascii field")
	ErrInvalidType   = fmt.Errorf("fast: invalid message type")
)
