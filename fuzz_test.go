package wsframe_test

import (
	"testing"

	"nhooyr.io/wsframe"
	"nhooyr.io/wsframe/internal/test/wstest"
)

// FuzzDecode checks that Decode never panics and that every
// frame it accepts is exactly as long as it claims.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x81, 0x05, 'H', 'e', 'l', 'l', 'o'})
	f.Add([]byte{0x81, 0x85, 0x37, 0xfa, 0x21, 0x3d, 0x7f, 0x9f, 0x4d, 0x51, 0x58})
	f.Add([]byte{0x82, 126, 0xff, 0xff})
	f.Add([]byte{0x82, 127, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x8f, 0x00})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{})
	for i := 0; i < 8; i++ {
		f.Add(wstest.AppendFrame(nil, wstest.RandFrame(300)))
	}

	f.Fuzz(func(t *testing.T, b []byte) {
		n, fr, err := wsframe.Decode(b)
		if err != nil {
			if n != 0 {
				t.Fatalf("consumed %v bytes with error %v", n, err)
			}
			return
		}

		if n > len(b) {
			t.Fatalf("consumed %v bytes of %v", n, len(b))
		}
		if hl := wstest.HeaderLen(len(fr.Payload), fr.Masked); n < hl+len(fr.Payload) {
			t.Fatalf("consumed %v bytes for a %v byte payload", n, len(fr.Payload))
		}

		// The frame alone decodes the same.
		n2, fr2, err := wsframe.Decode(b[:n])
		if err != nil || n2 != n || fr2.Opcode != fr.Opcode || len(fr2.Payload) != len(fr.Payload) {
			t.Fatalf("frame bytes decoded differently: %v %v %#v", n2, err, fr2)
		}

		// Any strict prefix is unfinished.
		_, _, err = wsframe.Decode(b[:n-1])
		if err != wsframe.ErrUnfinished {
			t.Fatalf("expected %v for prefix but got %v", wsframe.ErrUnfinished, err)
		}
	})
}
