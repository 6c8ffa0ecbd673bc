// Package wstest encodes frames for tests.
package wstest

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gobwas/ws"

	"nhooyr.io/wsframe"
	"nhooyr.io/wsframe/internal/test/xrand"
)

// AppendFrame appends the wire encoding of f to b.
// The header is written by github.com/gobwas/ws so that decoding
// is checked against an encoder that shares no code with it.
// f.Payload is written as is, it is not masked.
func AppendFrame(b []byte, f wsframe.Frame) []byte {
	h := ws.Header{
		Fin:    f.Fin,
		OpCode: ws.OpCode(f.Opcode),
		Masked: f.Masked,
		Length: int64(len(f.Payload)),
	}
	if f.Masked {
		binary.BigEndian.PutUint32(h.Mask[:], f.MaskKey)
	}

	buf := bytes.NewBuffer(b)
	err := ws.WriteHeader(buf, h)
	if err != nil {
		panic(fmt.Sprintf("failed to write header %#v: %v", h, err))
	}
	buf.Write(f.Payload)
	return buf.Bytes()
}

// HeaderLen returns the number of header bytes a frame
// with the given payload length and mask flag occupies.
func HeaderLen(n int, masked bool) int {
	l := 2
	switch {
	case n > 0xffff:
		l += 8
	case n > 125:
		l += 2
	}
	if masked {
		l += 4
	}
	return l
}

var opcodes = []wsframe.Opcode{
	wsframe.OpContinuation,
	wsframe.OpText,
	wsframe.OpBinary,
	wsframe.OpClose,
	wsframe.OpPing,
	wsframe.OpPong,
}

// RandFrame returns a random valid frame with a payload of at most max bytes.
// Control frames never carry more than 125 bytes.
func RandFrame(max int) wsframe.Frame {
	f := wsframe.Frame{
		Fin:    xrand.Bool(),
		Opcode: opcodes[xrand.Int(len(opcodes))],
		Masked: xrand.Bool(),
	}
	if f.Opcode.Control() {
		f.Fin = true
		if max > 125 {
			max = 125
		}
	}
	if f.Masked {
		f.MaskKey = xrand.Uint32()
	}
	f.Payload = xrand.Bytes(xrand.Int(max + 1))
	return f
}
