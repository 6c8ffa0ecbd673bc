package wsframe

import (
	"encoding/binary"
	"math"

	"golang.org/x/xerrors"
)

// First byte contains fin, rsv1, rsv2, rsv3 and the opcode.
// Second byte contains the mask flag and the payload length.
// See https://tools.ietf.org/html/rfc6455#section-5.2
const (
	finBit     = 1 << 7
	rsvBits    = 1<<6 | 1<<5 | 1<<4
	opcodeBits = 0xf

	maskBit    = 1 << 7
	lengthBits = 0x7f
)

// Frame is a single decoded WebSocket frame.
type Frame struct {
	// Fin is set on the last frame of a message.
	Fin    bool
	Opcode Opcode

	// MaskKey holds the 4 mask bytes packed big endian.
	// It is only meaningful when Masked is set.
	Masked  bool
	MaskKey uint32

	// Payload is exactly as it appeared on the wire.
	// A masked payload is still masked, see Unmasked.
	Payload []byte
}

// MaskingKey returns the masking key and whether the frame carried one.
func (f Frame) MaskingKey() (uint32, bool) {
	return f.MaskKey, f.Masked
}

// Unmasked returns a copy of the payload with the masking key removed.
// The payload is returned as is when the frame is not masked.
func (f Frame) Unmasked() []byte {
	p := append([]byte(nil), f.Payload...)
	if f.Masked {
		Mask(f.MaskKey, p)
	}
	return p
}

// Decoder decodes frames with an optional payload limit.
// The zero value places no limit on payload length.
type Decoder struct {
	// MaxPayload rejects frames declaring a longer payload with
	// ErrPayloadTooLarge once the length field has been read.
	// Zero or negative means unlimited.
	MaxPayload int64
}

// Decode decodes the frame at the start of b with the zero Decoder.
func Decode(b []byte) (int, Frame, error) {
	return Decoder{}.Decode(b)
}

// Decode decodes the frame at the start of b.
//
// On success it returns the number of bytes the frame occupied; anything
// after that is left for the next call. ErrUnfinished is returned as is
// whenever b ends before the frame does. Protocol violations are wrapped
// with detail and match their ParseError with errors.Is.
//
// The returned payload is a copy so b may be reused.
func (d Decoder) Decode(b []byte) (int, Frame, error) {
	if len(b) < 2 {
		return 0, Frame{}, ErrUnfinished
	}

	if b[0]&rsvBits != 0 {
		return 0, Frame{}, xerrors.Errorf("first byte %#08b: %w", b[0], ErrReservedBit)
	}
	op, err := ParseOpcode(b[0])
	if err != nil {
		return 0, Frame{}, xerrors.Errorf("opcode %#x: %w", b[0]&opcodeBits, err)
	}

	f := Frame{
		Fin:    b[0]&finBit != 0,
		Opcode: op,
		Masked: b[1]&maskBit != 0,
	}

	off := 2
	var length uint64
	switch n := b[1] & lengthBits; n {
	case 126:
		if len(b) < off+2 {
			return 0, Frame{}, ErrUnfinished
		}
		length = uint64(binary.BigEndian.Uint16(b[off:]))
		off += 2
	case 127:
		if len(b) < off+8 {
			return 0, Frame{}, ErrUnfinished
		}
		length = binary.BigEndian.Uint64(b[off:])
		off += 8
	default:
		length = uint64(n)
	}

	// The most significant bit of a 64 bit length must be 0.
	if length > math.MaxInt64 {
		return 0, Frame{}, xerrors.Errorf("length %v has the most significant bit set: %w", length, ErrPayloadTooLarge)
	}
	if d.MaxPayload > 0 && length > uint64(d.MaxPayload) {
		return 0, Frame{}, xerrors.Errorf("length %v exceeds limit %v: %w", length, d.MaxPayload, ErrPayloadTooLarge)
	}

	if f.Masked {
		if len(b) < off+4 {
			return 0, Frame{}, ErrUnfinished
		}
		f.MaskKey = binary.BigEndian.Uint32(b[off:])
		off += 4
	}

	if length > uint64(math.MaxInt-off) {
		return 0, Frame{}, xerrors.Errorf("length %v is not addressable: %w", length, ErrPayloadTooLarge)
	}
	end := off + int(length)
	if len(b) < end {
		return 0, Frame{}, ErrUnfinished
	}

	f.Payload = make([]byte, length)
	copy(f.Payload, b[off:end])
	return end, f, nil
}
