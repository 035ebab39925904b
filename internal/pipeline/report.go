package pipeline

import (
	"time"
)

// RunReport accumulates per-stage outcomes across one pipeline run.
type RunReport struct {
	RunID string
	Start time.Time
	End   time.Time

	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]string

	// Warnings are tolerated failures (the known-flaky upstream suite,
	// housekeeping); they never change the run outcome.
	Warnings []error
	Errors   []error

	// Artifacts lists the bundle paths produced by the packaging stage.
	Artifacts []string

	FinalState State
}

func newRunReport(runID string) *RunReport {
	return &RunReport{
		RunID:          runID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]string),
		FinalState:     StateIdle,
	}
}

// Duration is the wall-clock length of the run.
func (r *RunReport) Duration() time.Duration { return r.End.Sub(r.Start) }
