package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/imageguard/cmd/app/commands"
	"github.com/allisson/imageguard/internal/app"
	"github.com/allisson/imageguard/internal/config"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the vault API server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "fingerprint",
			Usage: "Print the vault fingerprint of an image",
			Flags: []cli.Flag{
				imageFlag(),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunFingerprint(cmd.String("image"), commands.DefaultIO().Writer, cmd.String("format"))
			},
		},
	}
}
