package arcafeed

import "fmt"

var (
	ErrTruncated       = fmt.Errorf("truncated buffer")
	ErrRunt            = fmt.Errorf("runt message body")
	ErrUnknownMsgType  = fmt.Errorf("unknown message type")
	ErrUnknownBodyType = fmt.Errorf("unknown body type in orders packet")
	ErrNoSymbolHook    = fmt.Errorf("no symbol lookup hook registered")
	ErrNoFirmHook      = fmt.Errorf("no firm lookup hook registered")
)

func truncatedError(what string, want, got int) error {
	return fmt.Errorf("%s: %w: want %d bytes, got %d", what, ErrTruncated, want, got)
}

func runtError(msgType uint16, want, got int) error {
	return fmt.Errorf("msg type %d: %w: want %d bytes, got %d", msgType, ErrRunt, want, got)
}
