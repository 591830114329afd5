package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/imageguard/cmd/app/commands"
	"github.com/allisson/imageguard/internal/app"
	"github.com/allisson/imageguard/internal/config"
)

func imageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "image",
		Aliases:  []string{"i"},
		Required: true,
		Usage:    "Path to the image that unlocks the vault",
	}
}

func indexFlag() cli.Flag {
	return &cli.IntFlag{
		Name:     "index",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "Entry number as shown by 'vault list'",
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "service",
			Aliases: []string{"s"},
			Usage:   "Service name (prompted for when omitted)",
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Username (prompted for when omitted)",
		},
	}
}

// vaultAction builds a container and a fresh client session for one vault
// command. Passwords are read from the terminal with prompts on stderr.
func vaultAction(
	run func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		container := app.NewContainer(cfg)
		defer func() { _ = container.Shutdown(ctx) }()

		return run(ctx, cmd, container, commands.TerminalPasswordReader(os.Stderr))
	}
}

func getVaultCommands() *cli.Command {
	return &cli.Command{
		Name:  "vault",
		Usage: "Open and edit the vault unlocked by an image",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show whether a vault exists for an image",
				Flags: []cli.Flag{imageFlag(), formatFlag()},
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultStatus(
						ctx, session, container.Logger(),
						cmd.String("image"), commands.DefaultIO().Writer, cmd.String("format"),
					)
				}),
			},
			{
				Name:  "create",
				Usage: "Create an empty vault for an image",
				Flags: []cli.Flag{imageFlag(), formatFlag()},
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultCreate(
						ctx, session, container.Logger(),
						cmd.String("image"), readPassword, commands.DefaultIO().Writer, cmd.String("format"),
					)
				}),
			},
			{
				Name:  "list",
				Usage: "Unlock a vault and list its entries",
				Flags: []cli.Flag{
					imageFlag(),
					formatFlag(),
					&cli.BoolFlag{
						Name:  "show-passwords",
						Usage: "Print entry passwords instead of masking them",
					},
				},
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultList(
						ctx, session, container.Logger(),
						cmd.String("image"), readPassword, commands.DefaultIO().Writer,
						cmd.String("format"), cmd.Bool("show-passwords"),
					)
				}),
			},
			{
				Name:  "add",
				Usage: "Add an entry to a vault",
				Flags: append([]cli.Flag{imageFlag(), formatFlag()}, serviceFlags()...),
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultAdd(
						ctx, session, container.Logger(),
						cmd.String("image"), readPassword, commands.DefaultIO(),
						cmd.String("service"), cmd.String("username"), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "edit",
				Usage: "Replace an entry of a vault",
				Flags: append(
					[]cli.Flag{
						imageFlag(),
						indexFlag(),
						formatFlag(),
						&cli.BoolFlag{
							Name:  "change-password",
							Usage: "Prompt for a new entry password",
						},
					},
					serviceFlags()...,
				),
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultEdit(
						ctx, session, container.Logger(),
						cmd.String("image"), readPassword, commands.DefaultIO(),
						int(cmd.Int("index")), cmd.String("service"), cmd.String("username"),
						cmd.Bool("change-password"), cmd.String("format"),
					)
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete an entry from a vault",
				Flags: []cli.Flag{imageFlag(), indexFlag(), formatFlag()},
				Action: vaultAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, readPassword commands.PasswordReader) error {
					session := container.NewSession()
					defer session.Lock()

					return commands.RunVaultDelete(
						ctx, session, container.Logger(),
						cmd.String("image"), readPassword, commands.DefaultIO().Writer,
						int(cmd.Int("index")), cmd.String("format"),
					)
				}),
			},
		},
	}
}
