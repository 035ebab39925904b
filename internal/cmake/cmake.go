// Package cmake wraps the external native build tool. The pipeline treats
// it as an opaque configure/build capability and only looks at exit status.
package cmake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// Runner invokes the build tool with a fixed working directory (the
// build-object directory). Stages never rely on the process cwd.
type Runner struct {
	ToolPath        string
	ObjDir          string
	ParallelismFlag string

	// Stdout/Stderr default to the process streams so the CI log captures
	// tool output verbatim.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner constructs a Runner for the given tool and build-object dir.
func NewRunner(toolPath, objDir, parallelismFlag string) *Runner {
	return &Runner{
		ToolPath:        toolPath,
		ObjDir:          objDir,
		ParallelismFlag: parallelismFlag,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}
}

// Configure runs the configure step with the given option set.
func (r *Runner) Configure(ctx context.Context, opts ConfigureOptions) error {
	args := opts.Args()
	slog.Info("Running build tool configure", logfields.Tool(r.ToolPath), logfields.Path(r.ObjDir))
	return r.run(ctx, args)
}

// Build runs `<tool> --build .` with an optional target. The parallelism
// flag is forwarded after `--` for generators that accept one.
func (r *Runner) Build(ctx context.Context, target string) error {
	args := []string{"--build", "."}
	if target != "" {
		args = append(args, "--target", target)
	}
	if r.ParallelismFlag != "" {
		args = append(args, "--", r.ParallelismFlag)
	}
	slog.Info("Running build tool", logfields.Tool(r.ToolPath), logfields.Target(target))
	return r.run(ctx, args)
}

func (r *Runner) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.ToolPath, args...)
	cmd.Dir = r.ObjDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", r.ToolPath, args, err)
	}
	return nil
}
