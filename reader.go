package wsframe

import (
	"io"

	"golang.org/x/xerrors"
)

const readChunk = 4096

// Reader decodes consecutive frames from a stream.
//
// It keeps every byte that has not yet been decoded into a frame,
// so frames split across reads and several frames in one read are
// both handled.
type Reader struct {
	r io.Reader
	d Decoder

	// buf[off:] holds the bytes not yet consumed by a frame.
	buf []byte
	off int
	err error
}

// NewReader returns a Reader decoding frames from r with d.
func NewReader(r io.Reader, d Decoder) *Reader {
	return &Reader{
		r: r,
		d: d,
	}
}

// ReadFrame returns the next frame.
//
// It returns io.EOF if the stream ends between frames and
// io.ErrUnexpectedEOF if it ends inside one. Protocol violations
// are wrapped and match their ParseError with errors.Is.
func (r *Reader) ReadFrame() (Frame, error) {
	for {
		n, f, err := r.d.Decode(r.buf[r.off:])
		if err == nil {
			r.off += n
			if r.off == len(r.buf) {
				r.buf = r.buf[:0]
				r.off = 0
			}
			return f, nil
		}
		if err != ErrUnfinished {
			return Frame{}, xerrors.Errorf("failed to decode frame: %w", err)
		}

		err = r.fill()
		if err == io.EOF {
			if r.Buffered() > 0 {
				return Frame{}, io.ErrUnexpectedEOF
			}
			return Frame{}, io.EOF
		}
		if err != nil {
			return Frame{}, xerrors.Errorf("failed to read frame: %w", err)
		}
	}
}

// Buffered returns the number of bytes read from the stream
// but not yet returned as part of a frame.
func (r *Reader) Buffered() int {
	return len(r.buf) - r.off
}

// fill reads at least once from the underlying reader,
// appending to the unconsumed bytes.
func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}

	if r.off > 0 {
		n := copy(r.buf, r.buf[r.off:])
		r.buf = r.buf[:n]
		r.off = 0
	}

	if cap(r.buf)-len(r.buf) < readChunk {
		b := make([]byte, len(r.buf), 2*cap(r.buf)+readChunk)
		copy(b, r.buf)
		r.buf = b
	}

	n, err := r.r.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]
	if n > 0 {
		// Decode what arrived before reporting err.
		r.err = err
		return nil
	}
	return err
}
