// Package pipeline sequences the clean, configure, build, test, publish,
// packaging and housekeeping stages of a toolchain build. Exactly one
// pipeline runs per process; stages execute strictly one at a time, each a
// blocking call, and the working directory is owned exclusively by the
// in-flight run.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/toolbuilder/internal/cmake"
	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
	"git.home.luguber.info/inful/toolbuilder/internal/metrics"
	"git.home.luguber.info/inful/toolbuilder/internal/plan"
	"git.home.luguber.info/inful/toolbuilder/internal/publish"
	"git.home.luguber.info/inful/toolbuilder/internal/workspace"
)

// BuildTool is the opaque configure/build capability the stages invoke.
// Satisfied by cmake.Runner; tests substitute a fake.
type BuildTool interface {
	Configure(ctx context.Context, opts cmake.ConfigureOptions) error
	Build(ctx context.Context, target string) error
}

// Options wires a pipeline. Plan and Tool are required; the rest default
// to the production implementations.
type Options struct {
	Plan      plan.Plan
	Profile   config.Profile
	Tool      BuildTool
	Publisher publish.Publisher
	Archiver  publish.Archiver
	Recorder  metrics.Recorder
}

// Pipeline drives one run to Done or Aborted. It is not reusable.
type Pipeline struct {
	plan      plan.Plan
	prof      config.Profile
	layout    workspace.Layout
	tool      BuildTool
	publisher publish.Publisher
	archiver  publish.Archiver
	recorder  metrics.Recorder

	state  State
	report *RunReport
}

// New constructs a pipeline in the Idle state.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		plan:      opts.Plan,
		prof:      opts.Profile,
		layout:    workspace.NewLayout(opts.Plan.Workspace),
		tool:      opts.Tool,
		publisher: opts.Publisher,
		archiver:  opts.Archiver,
		recorder:  opts.Recorder,
		state:     StateIdle,
		report:    newRunReport(opts.Plan.RunID),
	}
	if p.publisher == nil {
		p.publisher = publish.RsyncPublisher{}
	}
	if p.archiver == nil {
		p.archiver = publish.TarGzArchiver{}
	}
	if p.recorder == nil {
		p.recorder = metrics.NoopRecorder{}
	}
	return p
}

// State returns the driver's current position.
func (p *Pipeline) State() State { return p.state }

type stageDef struct {
	state State
	name  StageName
	fn    func(ctx context.Context) error
}

// Run executes the fixed stage sequence. A fatal stage failure transitions
// straight to Aborted: everything after it, housekeeping included, is
// skipped. Aborted publishing runs therefore leave their stamped install
// directory behind; the prune sweep reclaims those later.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	stages := []stageDef{
		{StateCleaning, StageClean, p.stageClean},
		{StateConfiguring, StageConfigure, p.stageConfigure},
		{StateBuilding, StageBuild, p.stageBuild},
		{StateTesting, StageTest, p.stageTest},
		{StatePublishing, StagePublishDocs, p.stagePublishDocs},
		{StatePackaging, StagePackaging, p.stagePackaging},
		{StateHouseKeeping, StageHousekeeping, p.stageHousekeeping},
	}

	for _, st := range stages {
		select {
		case <-ctx.Done():
			return p.abort(newCanceledStageError(st.name, ctx.Err()))
		default:
		}

		p.state = st.state
		slog.Info("Stage starting", logfields.Stage(string(st.name)), logfields.RunID(p.plan.RunID))

		t0 := time.Now()
		err := st.fn(ctx)
		dur := time.Since(t0)
		p.report.StageDurations[st.name] = dur
		p.recorder.ObserveStageDuration(string(st.name), dur)

		if err == nil {
			p.report.StageResults[st.name] = string(metrics.ResultSuccess)
			p.recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
			slog.Info("Stage finished", logfields.Stage(string(st.name)),
				logfields.DurationMS(float64(dur.Milliseconds())))
			continue
		}

		se := asStageError(st.name, err)
		p.report.StageResults[se.Stage] = string(resultLabel(se.Kind))
		p.recorder.IncStageResult(string(se.Stage), resultLabel(se.Kind))

		if se.Kind == StageErrorWarning {
			p.report.Warnings = append(p.report.Warnings, se)
			slog.Warn("Stage finished with tolerated failure",
				logfields.Stage(string(se.Stage)), logfields.Error(se.Err))
			continue
		}
		return p.abort(se)
	}

	p.state = StateDone
	p.report.FinalState = StateDone
	p.report.End = time.Now()
	p.recorder.ObserveRunDuration(p.report.Duration())
	p.recorder.IncRunOutcome("done")
	return p.report, nil
}

func (p *Pipeline) abort(se *StageError) (*RunReport, error) {
	p.report.Errors = append(p.report.Errors, se)
	p.state = StateAborted
	p.report.FinalState = StateAborted
	p.report.End = time.Now()
	p.recorder.ObserveRunDuration(p.report.Duration())
	p.recorder.IncRunOutcome("aborted")
	slog.Error("Pipeline aborted", logfields.Stage(string(se.Stage)), logfields.Error(se.Err))
	return p.report, se
}

// asStageError normalizes any stage return into a StageError; unknown
// errors are fatal by default.
func asStageError(stage StageName, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	return newFatalStageError(stage, err)
}

func resultLabel(kind StageErrorKind) metrics.ResultLabel {
	switch kind {
	case StageErrorWarning:
		return metrics.ResultWarning
	case StageErrorCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}
