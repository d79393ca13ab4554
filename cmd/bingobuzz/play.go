package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Betegna-Systems/betegna-bingo-buzz/cmd/bingobuzz/shared"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/engine"
	"github.com/Betegna-Systems/betegna-bingo-buzz/internal/tui"
)

// PlayCmd runs an in-process engine with bot-filled rooms and a terminal
// UI on top of it.
type PlayCmd struct {
	Name  string `kong:"default='You',help='Display name'"`
	Debug bool   `kong:"help='Enable debug logging to the log file'"`
	Log   string `kong:"default='bingobuzz-play.log',help='Log file (the TUI owns the terminal)'"`
}

func (c *PlayCmd) Run() error {
	logFile, err := os.OpenFile(c.Log, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := shared.SetupLoggerTo(logFile, c.Debug)

	eng := engine.New(engine.DefaultRooms(), logger)
	eng.SeedBots()

	model := tui.NewModel(eng, uuid.NewString(), c.Name, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	unsubscribe := eng.Bus().SubscribeAll(func(ev engine.Event) {
		program.Send(tui.EventMsg{Event: ev})
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eng.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return err
	})

	return g.Wait()
}
