package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docmatrix/cmd/docmatrix/commands"
	ferrors "git.home.luguber.info/inful/docmatrix/internal/foundation/errors"
	"git.home.luguber.info/inful/docmatrix/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docmatrix"),
		kong.Description("Build multi-branch, multi-distro documentation from a git repository."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Ctx: ctx, Logger: slog.Default()}, cli)
	stop()
	if err != nil {
		os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
	}
}
