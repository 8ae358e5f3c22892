package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"utsulog/internal/session"
	"utsulog/internal/ui"
)

// envE2E makes the TUI print a readiness marker for the PTY test suite
const envE2E = "UTSULOG_E2E_TEST"

// TUICommand creates the interactive session command
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Start an interactive search session (default)",
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, c *cli.Command) error {
	rt, err := newRuntime(c, "tui")
	if err != nil {
		return err
	}
	defer rt.Close()

	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			if err := rt.metrics.Serve(ctx, addr, rt.logger); err != nil {
				rt.logger.Error("metrics endpoint failed", "addr", addr, "error", err)
			}
		}()
	}

	cfg := rt.cfg
	ctrl := session.New(ctx, rt.client, rt.bus,
		session.WithQuiescence(cfg.Debounce.Duration),
		session.WithScrollThreshold(cfg.ScrollThreshold),
		session.WithRequestTimeout(cfg.RequestTimeout.Duration),
		session.WithInitialCriteria(cfg.InitialCriteria()),
	)
	defer ctrl.Close()

	model := ui.NewModel(ctrl, rt.client, rt.bus, cfg,
		ui.WithLogger(rt.logger),
		ui.WithInitialQuery(c.String("query")),
		ui.WithContext(ctx),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	rt.logger.Info("session started", "config", rt.cfgPath, "api_url", cfg.APIURL)
	if os.Getenv(envE2E) == "1" {
		fmt.Println("__READY__")
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	rt.logger.Info("session ended")
	return nil
}
