// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/souqdz/marketplace/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Marketplace order and payment backend",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "worker",
				Usage: "Start the notification worker and escrow sweeper",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunWorker(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "release-escrow",
				Usage: "Run one escrow sweep and release due payments to sellers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunReleaseEscrow(ctx, cmd.String("format"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
