package wsframe

import (
	"errors"
)

// ParseError classifies why bytes could not be decoded into a frame.
//
// ErrUnfinished is not a protocol violation. Every other ParseError means
// the peer broke the framing rules and the connection should be closed.
type ParseError int

const (
	// ErrUnfinished means the buffer ends before the frame does.
	// Retry with the same bytes plus whatever arrives next.
	ErrUnfinished ParseError = iota + 1
	// ErrReservedOpcode means the opcode nibble holds a value RFC 6455 does not define.
	ErrReservedOpcode
	// ErrReservedBit means one of RSV1, RSV2 or RSV3 is set.
	// No extensions are supported so all three must be zero.
	ErrReservedBit
	// ErrPayloadTooLarge means the declared payload length exceeds
	// Decoder.MaxPayload or cannot be represented in memory.
	ErrPayloadTooLarge
)

func (e ParseError) Error() string {
	switch e {
	case ErrUnfinished:
		return "wsframe: unfinished frame"
	case ErrReservedOpcode:
		return "wsframe: reserved opcode"
	case ErrReservedBit:
		return "wsframe: reserved bit set"
	case ErrPayloadTooLarge:
		return "wsframe: payload too large"
	}
	return "wsframe: unknown parse error"
}

// IsUnfinished reports whether err only signals that more bytes are needed.
func IsUnfinished(err error) bool {
	return errors.Is(err, ErrUnfinished)
}
