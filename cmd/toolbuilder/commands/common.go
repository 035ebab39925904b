package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Profile string           `short:"p" help:"Node profile file path" default:"toolbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run   RunCmd   `cmd:"" help:"Resolve the build plan and run the full pipeline"`
	Plan  PlanCmd  `cmd:"" help:"Resolve the build plan and print it without running anything"`
	Prune PruneCmd `cmd:"" help:"Remove stale stamped build directories"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv("TOOLBUILDER_LOG_LEVEL")).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// inputFlags are the CI trigger/environment signals shared by run and plan.
type inputFlags struct {
	Label            string `env:"LABEL" required:"" help:"Label of the node this run executes on"`
	Workspace        string `env:"WORKSPACE" required:"" help:"CI workspace directory" type:"existingdir"`
	Clean            bool   `env:"CLEAN" help:"Request removal of build and install directories"`
	Binaries         bool   `env:"BINARIES" help:"Request publishing of binaries, sources and documentation"`
	TriggerCause     string `env:"ROOT_BUILD_CAUSE" name:"trigger-cause" help:"CI trigger metadata (timer, SCM, manual)"`
	RunTests         bool   `env:"TESTCLING" name:"run-tests" default:"true" negatable:"" help:"Run the plugin's own test suite"`
	RunUpstreamTests bool   `env:"TESTLLVMCLANG" name:"run-upstream-tests" negatable:"" help:"Run the upstream llvm/clang test suites"`
}

func (f inputFlags) inputs() config.Inputs {
	return config.Inputs{
		NodeLabel:                f.Label,
		Workspace:                f.Workspace,
		CleanRequested:           f.Clean,
		PublishBinariesRequested: f.Binaries,
		TriggerCause:             f.TriggerCause,
		RunPrimaryTests:          f.RunTests,
		RunUpstreamTests:         f.RunUpstreamTests,
	}
}
