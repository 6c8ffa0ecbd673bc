package wsframe

// Opcode represents a WebSocket opcode.
// See https://tools.ietf.org/html/rfc6455#section-11.8.
type Opcode int

//go:generate stringer -type=Opcode

// Opcode constants.
const (
	OpContinuation Opcode = iota
	OpText
	OpBinary
	// 3 - 7 are reserved for further non-control frames.
	_
	_
	_
	_
	_
	OpClose
	OpPing
	OpPong
	// 11 - 15 are reserved for further control frames.
)

// ParseOpcode returns the Opcode held in the low nibble of b.
// Reserved values are rejected with ErrReservedOpcode.
func ParseOpcode(b byte) (Opcode, error) {
	op := Opcode(b & opcodeBits)
	if !op.Valid() {
		return 0, ErrReservedOpcode
	}
	return op, nil
}

// Valid reports whether o is one of the opcodes defined by RFC 6455.
func (o Opcode) Valid() bool {
	switch o {
	case OpContinuation, OpText, OpBinary, OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// Control reports whether o is a close, ping or pong opcode.
func (o Opcode) Control() bool {
	switch o {
	case OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// Data reports whether o starts a text or binary message.
func (o Opcode) Data() bool {
	switch o {
	case OpText, OpBinary:
		return true
	}
	return false
}
