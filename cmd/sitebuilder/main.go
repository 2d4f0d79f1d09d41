package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/davherrmann/davherrmann.github.io/cmd/sitebuilder/commands"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/version"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("sitebuilder"),
		kong.Description("Build the static site from the configured source tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	global := &commands.Global{Context: ctx, Logger: slog.Default(), Stdout: os.Stdout}
	if err := kctx.Run(global, &cli); err != nil {
		cancel()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
