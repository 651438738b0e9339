// Command audiocard runs the audio card service for one board and offers
// an interactive console to open, close and inspect streams.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"audiocard-go/bus"
	"audiocard-go/services/audiocard"
	"audiocard-go/services/config"
	"audiocard-go/services/monitor"

	"golang.org/x/sync/errgroup"
)

func main() {
	board := flag.String("board", "davinci-evm", "board plan and embedded config to use")
	path := flag.String("config", "", "YAML config file (overrides the embedded config)")
	quiet := flag.Bool("quiet", false, "print card summaries only, not every audio/# message")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	println("[main] bootstrapping bus …")
	b := bus.NewBus(16)
	svcConn := b.NewConnection("audiocard")
	uiConn := b.NewConnection("ui")
	cfgConn := b.NewConnection("config")

	g, ctx := errgroup.WithContext(ctx)

	mon := &monitor.Service{Quiet: *quiet}
	if err := mon.Start(ctx, b.NewConnection("monitor")); err != nil {
		println("[main] monitor:", err.Error())
	}

	println("[main] starting audiocard on", *board, "…")
	g.Go(func() error { return audiocard.Run(ctx, svcConn, *board) })

	cfg := config.NewConfigService()
	cfg.Path = *path
	cctx := context.WithValue(ctx, config.CtxBoardKey, *board)
	if err := cfg.Publish(cctx, cfgConn); err != nil {
		println("[main] config:", err.Error())
		stop()
		os.Exit(1)
	}

	con := newConsole(uiConn, os.Stdout)
	g.Go(func() error {
		err := con.run(ctx, os.Stdin)
		stop()
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		println("[main] exit:", err.Error())
		os.Exit(1)
	}
}
