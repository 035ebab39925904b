package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/toolbuilder/cmd/toolbuilder/commands"
	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/version"
)

func main() {
	// Env files must be in place before kong resolves env-tagged flags.
	if loaded := config.LoadEnvFiles(); loaded != "" {
		slog.Debug("Loaded environment file", "path", loaded)
	}

	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("toolbuilder"),
		kong.Description("CI build orchestrator for the cling toolchain"),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
