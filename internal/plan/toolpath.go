package plan

import (
	"os/exec"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
)

// lookPath is a seam for tests; exec.LookPath in production.
var lookPath = exec.LookPath

// findBuildTool searches the ordered candidate names on PATH and degrades to
// the label-specific fallback, then the generic default. It always returns
// some path; the second result reports whether a fallback was used.
func findBuildTool(label string, prof config.Profile) (string, bool) {
	for _, name := range prof.ToolCandidates {
		if path, err := lookPath(name); err == nil {
			return path, false
		}
	}
	if path, ok := prof.FallbackPaths[label]; ok {
		return path, true
	}
	return prof.DefaultToolPath, true
}
