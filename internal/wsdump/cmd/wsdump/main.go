// Command wsdump listens for TCP connections carrying WebSocket frames
// and logs each frame it decodes.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"golang.org/x/time/rate"

	"nhooyr.io/wsframe/internal/wsdump"
)

func main() {
	addr := flag.String("addr", "localhost:3000", "address to listen on")
	maxPayload := flag.Int64("max-payload", 0, "close connections sending frames with a longer payload, 0 for no limit")
	frameRate := flag.Float64("rate", 0, "frames per second decoded per connection, 0 for no limit")
	burst := flag.Int("burst", 10, "frames decoded per connection before -rate applies")
	verbose := flag.Bool("v", false, "log every decoded frame")
	flag.Parse()

	log := slog.Make(sloghuman.Sink(os.Stderr))
	if *verbose {
		log = log.Leveled(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(ctx, "failed to listen", slog.F("addr", *addr), slog.Error(err))
	}
	log.Info(ctx, "listening", slog.F("addr", l.Addr().String()))

	err = wsdump.Serve(ctx, l, wsdump.Options{
		Logger:     log.Named("wsdump"),
		MaxPayload: *maxPayload,
		FrameRate:  rate.Limit(*frameRate),
		FrameBurst: *burst,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(ctx, "failed to serve", slog.Error(err))
	}
}
