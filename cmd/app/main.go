// Package main is the imageguard binary: the vault API server, its migrations
// and the interactive vault client.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commands := append(getSystemCommands(version), getVaultCommands())

	cmd := &cli.Command{
		Name:                  "imageguard",
		Usage:                 "Image-unlocked password vault: API server and client",
		Version:               version,
		EnableShellCompletion: true,
		Commands:              commands,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
