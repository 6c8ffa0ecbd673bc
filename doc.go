// Package wsframe decodes WebSocket frames from a stream of bytes.
//
// See https://tools.ietf.org/html/rfc6455#section-5.2
//
// Decode is a pure function over whatever bytes have been received so far.
// It either returns exactly one frame and the number of bytes it occupied,
// or ErrUnfinished when more bytes are needed, or an error describing how
// the bytes violate the framing rules.
//
// Reader wraps Decode with the per connection buffering that a stream
// transport needs. Mask removes the masking applied by clients.
// Neither is used by Decode itself.
package wsframe
