// Package wsdump serves raw TCP connections that carry WebSocket frames
// and logs every frame it decodes.
//
// There is no handshake, peers are expected to start sending frames
// right after connecting.
package wsdump

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"cdr.dev/slog"
	"golang.org/x/time/rate"

	"nhooyr.io/wsframe"
	"nhooyr.io/wsframe/internal/errd"
)

// Options configures Serve.
type Options struct {
	// Logger receives one debug entry per frame and one entry
	// per closed connection. The zero Logger discards everything.
	Logger slog.Logger

	// MaxPayload is passed through as wsframe.Decoder.MaxPayload.
	MaxPayload int64

	// FrameRate limits how many frames per second are decoded
	// on each connection. Zero means unlimited.
	FrameRate rate.Limit
	// FrameBurst defaults to 1.
	FrameBurst int

	// OnFrame is called with every decoded frame if set.
	// It is called from the connection's goroutine.
	OnFrame func(net.Addr, wsframe.Frame)
}

// Serve accepts connections on l until ctx is done or Accept fails.
// Each connection is read by its own goroutine and closed on the
// first protocol violation.
//
// When ctx is done, l and all connections are closed and ctx.Err()
// is returned once every connection goroutine has exited.
func Serve(ctx context.Context, l net.Listener, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	stop := context.AfterFunc(ctx, func() {
		l.Close()
	})
	defer stop()

	for {
		c, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			opts.Logger.Error(ctx, "failed to accept", slog.Error(err))
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(ctx, c, opts)
		}()
	}
}

func serveConn(ctx context.Context, c net.Conn, opts Options) {
	log := opts.Logger.With(slog.F("remote_addr", c.RemoteAddr().String()))

	err := readFrames(ctx, c, opts, log)
	var perr wsframe.ParseError
	switch {
	case errors.Is(err, io.EOF):
		log.Debug(ctx, "connection closed by peer")
	case errors.As(err, &perr):
		log.Warn(ctx, "protocol violation, closing connection", slog.Error(err))
	case ctx.Err() != nil:
		log.Debug(ctx, "connection closed on shutdown")
	default:
		log.Warn(ctx, "connection failed", slog.Error(err))
	}
}

func readFrames(ctx context.Context, c net.Conn, opts Options, log slog.Logger) (err error) {
	defer errd.Wrap(&err, "failed to read frames from %v", c.RemoteAddr())
	defer c.Close()

	stop := context.AfterFunc(ctx, func() {
		c.Close()
	})
	defer stop()

	var l *rate.Limiter
	if opts.FrameRate > 0 {
		burst := opts.FrameBurst
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(opts.FrameRate, burst)
	}

	r := wsframe.NewReader(c, wsframe.Decoder{MaxPayload: opts.MaxPayload})
	for {
		if l != nil {
			err = l.Wait(ctx)
			if err != nil {
				return err
			}
		}

		var f wsframe.Frame
		f, err = r.ReadFrame()
		if err != nil {
			return err
		}

		log.Debug(ctx, "frame",
			slog.F("fin", f.Fin),
			slog.F("opcode", f.Opcode.String()),
			slog.F("masked", f.Masked),
			slog.F("length", len(f.Payload)),
		)
		if opts.OnFrame != nil {
			opts.OnFrame(c.RemoteAddr(), f)
		}
	}
}
