// Package plan turns the raw trigger and environment signals of a CI run
// into one immutable build plan. Resolution happens exactly once per
// process; every stage reads the plan, none writes it.
package plan

import "time"

// Generator selects how the build tool drives the native build.
type Generator string

const (
	GeneratorUnixMakefiles Generator = "Unix Makefiles"
	GeneratorVisualStudio  Generator = "Visual Studio"
)

// Trigger-cause markers recognized in CI trigger metadata.
const (
	TriggerTimer  = "TIMERTRIGGER"
	TriggerSCM    = "SCMTRIGGER"
	TriggerManual = "MANUALTRIGGER"
)

// FixedInstallDirName is the install directory used for runs that do not
// publish binaries. Publishing runs get a date+label stamped name instead.
const FixedInstallDirName = "inst"

// Plan is the resolved, internally consistent configuration for one run.
type Plan struct {
	RunID     string    `yaml:"run_id"`
	NodeLabel string    `yaml:"node_label"`
	Workspace string    `yaml:"workspace"`
	Generator Generator `yaml:"generator"`

	CleanBuild      bool `yaml:"clean_build"`
	PublishBinaries bool `yaml:"publish_binaries"`

	RunPrimaryTests  bool `yaml:"run_primary_tests"`
	RunUpstreamTests bool `yaml:"run_upstream_tests"`

	InstallDirName string `yaml:"install_dir"`
	DocsEnabled    bool   `yaml:"docs_enabled"`

	// ParallelismFlag is the extra build-tool argument controlling native
	// build parallelism. Empty for IDE generators, which schedule their own.
	ParallelismFlag string `yaml:"parallelism_flag,omitempty"`

	BuildToolPath string `yaml:"build_tool"`
	// ToolFromFallback records that no candidate was found on PATH and a
	// hardcoded fallback path was used. An unreachable fallback surfaces as
	// a configure failure later, so this is worth logging up front.
	ToolFromFallback bool `yaml:"tool_from_fallback"`

	// SourcePublisher marks the node that archives the source snapshot.
	SourcePublisher bool `yaml:"source_publisher"`

	Today string `yaml:"today"`
}

// Stamp returns the date+label stamp used for publishing runs.
func Stamp(tool, label string, now time.Time) string {
	return tool + "_" + now.Format("2006-01-02") + "_" + label
}
