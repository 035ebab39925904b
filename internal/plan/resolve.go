package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/workspace"
)

// Resolve reconciles trigger metadata, node identity and operator flags into
// a single Plan. It never fails: tool discovery degrades to a fallback path
// and unusable results surface later as stage failures.
//
// Precedence for clean/publish, highest first:
//  1. timer trigger: full build, publish and clean forced on
//  2. source-change trigger: incremental build, publish and clean forced off
//  3. manual or absent trigger: caller flags taken verbatim
//
// Two invariants may still force a clean afterwards: publishing runs never
// reuse a stamped install dir, and a missing build-object directory means
// configure cannot be skipped.
func Resolve(in config.Inputs, prof config.Profile, now time.Time) Plan {
	p := Plan{
		RunID:            uuid.NewString(),
		NodeLabel:        in.NodeLabel,
		Workspace:        in.Workspace,
		CleanBuild:       in.CleanRequested,
		PublishBinaries:  in.PublishBinariesRequested,
		RunPrimaryTests:  in.RunPrimaryTests,
		RunUpstreamTests: in.RunUpstreamTests,
		Today:            now.Format("2006-01-02"),
	}

	if in.TriggerCause != "" && in.TriggerCause != TriggerManual {
		switch {
		case strings.Contains(in.TriggerCause, TriggerTimer):
			// nightly wins, even if there was a commit right before
			p.PublishBinaries = true
			p.CleanBuild = true
		case strings.Contains(in.TriggerCause, TriggerSCM):
			p.PublishBinaries = false
			p.CleanBuild = false
		}
	}

	p.Generator = GeneratorUnixMakefiles
	if strings.Contains(in.NodeLabel, prof.WindowsMarker) {
		p.Generator = GeneratorVisualStudio
	}
	if p.Generator == GeneratorUnixMakefiles {
		p.ParallelismFlag = fmt.Sprintf("-j%d", prof.ParallelJobs)
	}

	p.DocsEnabled = strings.Contains(in.NodeLabel, prof.DocLabelMarker)
	p.SourcePublisher = strings.Contains(in.NodeLabel, prof.SourcePublisher)

	p.InstallDirName = FixedInstallDirName
	if p.PublishBinaries {
		// stamped install dirs are never reused
		p.InstallDirName = Stamp(prof.ToolName, in.NodeLabel, now)
		p.CleanBuild = true
	}

	if !dirExists(filepath.Join(in.Workspace, workspace.ObjDirName)) {
		// no prior build cache: configure cannot be skipped
		p.CleanBuild = true
	}

	p.BuildToolPath, p.ToolFromFallback = findBuildTool(in.NodeLabel, prof)
	return p
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
