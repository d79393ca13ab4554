package main

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Betegna-Systems/betegna-bingo-buzz/cmd/bingobuzz/shared"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/server"
)

// ServeCmd runs the WebSocket server over the configured room catalog.
type ServeCmd struct {
	Config string `kong:"default='bingobuzz.hcl',help='HCL configuration file (defaults apply when absent)'"`
	Addr   string `kong:"help='Override the configured listen address'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	NoBots bool   `kong:"help='Do not seed rooms with bots'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	eng := engine.New(cfg.Rooms, logger)
	if !c.NoBots {
		eng.SeedBots()
	}
	srv := server.NewServer(addr, eng, logger)

	logger.Info("starting bingobuzz server",
		"addr", addr,
		"rooms", len(cfg.Rooms))

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Stop()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
