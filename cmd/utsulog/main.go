package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	// Cancelled on interrupt so in-flight requests and the metrics server wind down
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "utsulog: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "utsulog",
		Usage: "Search archived live-stream chat logs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path (default $XDG_CONFIG_HOME/utsulog/config.toml)",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Search API base URL, overrides config and environment",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Search query",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address while the TUI runs (e.g. :9090)",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			TUICommand(),
			SearchCommand(),
			VideosCommand(),
			VersionCommand(),
		},
	}
}
