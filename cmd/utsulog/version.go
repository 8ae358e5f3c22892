package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// VersionCommand creates the version command
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Fprintf(c.Root().Writer, "utsulog %s\n", version)
			return nil
		},
	}
}
