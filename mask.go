package wsframe

import (
	"encoding/binary"
	"math/bits"
)

// Mask applies the WebSocket masking algorithm to b in place.
// Masking and unmasking are the same operation.
// See https://tools.ietf.org/html/rfc6455#section-5.3
//
// key is packed big endian, the way Frame.MaskKey carries it.
// The returned key is rotated past the bytes of b so a payload
// can be unmasked in chunks:
//
//	key = Mask(key, p[:n])
//	key = Mask(key, p[n:])
func Mask(key uint32, b []byte) uint32 {
	// The word loops below load b little endian so
	// the first mask byte must sit in the low bits.
	le := bits.ReverseBytes32(key)

	if len(b) >= 8 {
		le64 := uint64(le)<<32 | uint64(le)

		for len(b) >= 32 {
			v := binary.LittleEndian.Uint64(b)
			binary.LittleEndian.PutUint64(b, v^le64)
			v = binary.LittleEndian.Uint64(b[8:16])
			binary.LittleEndian.PutUint64(b[8:16], v^le64)
			v = binary.LittleEndian.Uint64(b[16:24])
			binary.LittleEndian.PutUint64(b[16:24], v^le64)
			v = binary.LittleEndian.Uint64(b[24:32])
			binary.LittleEndian.PutUint64(b[24:32], v^le64)
			b = b[32:]
		}

		for len(b) >= 8 {
			v := binary.LittleEndian.Uint64(b)
			binary.LittleEndian.PutUint64(b, v^le64)
			b = b[8:]
		}
	}

	for len(b) >= 4 {
		v := binary.LittleEndian.Uint32(b)
		binary.LittleEndian.PutUint32(b, v^le)
		b = b[4:]
	}

	for i := range b {
		b[i] ^= byte(le)
		le = bits.RotateLeft32(le, -8)
	}

	return bits.ReverseBytes32(le)
}
