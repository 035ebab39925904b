package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/toolbuilder/internal/auth"
	"git.home.luguber.info/inful/toolbuilder/internal/cmake"
	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/gitinfo"
	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
	"git.home.luguber.info/inful/toolbuilder/internal/metrics"
	"git.home.luguber.info/inful/toolbuilder/internal/pipeline"
	"git.home.luguber.info/inful/toolbuilder/internal/plan"
	"git.home.luguber.info/inful/toolbuilder/internal/prune"
	"git.home.luguber.info/inful/toolbuilder/internal/workspace"
)

// RunCmd implements the 'run' command: resolve the plan, prepare the
// workspace and drive the pipeline to Done or Aborted.
type RunCmd struct {
	inputFlags

	Prune       bool   `help:"Sweep stale stamped directories from the workspace parent before running"`
	MetricsFile string `help:"Write run metrics in Prometheus textfile format to this path"`
}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	prof, err := config.LoadProfile(root.Profile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := plan.Resolve(r.inputs(), prof, time.Now())
	logPlan(p, r.TriggerCause)

	layout := workspace.NewLayout(p.Workspace)
	if err := layout.TouchControlFile(); err != nil {
		return err
	}

	if r.Prune {
		maxAge := time.Duration(prof.PruneAfterDays) * 24 * time.Hour
		parent := filepath.Dir(p.Workspace)
		if _, err := prune.Stale(parent, prof.ToolName+"_", maxAge, time.Now()); err != nil {
			slog.Warn("Stale directory sweep failed", logfields.Error(err))
		}
	}

	// Doc-capable nodes need a ticket before the documentation transfer.
	if p.DocsEnabled {
		if err := auth.EnsureTicket(ctx, prof.Kerberos); err != nil {
			return err
		}
	}

	if commit, err := gitinfo.HeadCommit(layout.SourceDir()); err == nil {
		slog.Info("Source checkout", logfields.Commit(commit))
	} else {
		slog.Debug("Source commit unavailable", logfields.Error(err))
	}

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
	pipe := pipeline.New(pipeline.Options{
		Plan:     p,
		Profile:  prof,
		Tool:     cmake.NewRunner(p.BuildToolPath, layout.ObjDir(), p.ParallelismFlag),
		Recorder: recorder,
	})

	report, runErr := pipe.Run(ctx)

	if r.MetricsFile != "" {
		if err := recorder.WriteTextfile(r.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Error(err))
		}
	}

	slog.Info("Pipeline finished",
		logfields.RunID(p.RunID),
		logfields.State(string(report.FinalState)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())),
		slog.Int("warnings", len(report.Warnings)),
		slog.Int("artifacts", len(report.Artifacts)))
	return runErr
}

// logPlan echoes the resolved configuration so every CI log starts with
// the exact plan this run executed.
func logPlan(p plan.Plan, triggerCause string) {
	slog.Info("Resolved build plan",
		logfields.RunID(p.RunID),
		logfields.Label(p.NodeLabel),
		logfields.Trigger(triggerCause),
		logfields.Generator(string(p.Generator)),
		slog.Bool("clean_build", p.CleanBuild),
		slog.Bool("publish_binaries", p.PublishBinaries),
		slog.Bool("docs_enabled", p.DocsEnabled),
		slog.String("install_dir", p.InstallDirName),
		logfields.Tool(p.BuildToolPath),
		slog.Bool("tool_from_fallback", p.ToolFromFallback))
	if p.ToolFromFallback {
		slog.Warn("No build tool found on PATH, using fallback path; "+
			"an unreachable fallback will fail at configure", logfields.Tool(p.BuildToolPath))
	}
}
