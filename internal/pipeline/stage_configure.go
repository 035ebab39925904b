package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/toolbuilder/internal/cmake"
)

// stageConfigure runs the build-tool configure step into a fresh
// build-object directory. Incremental builds reuse the prior configuration
// and skip this entirely.
func (p *Pipeline) stageConfigure(ctx context.Context) error {
	if !p.plan.CleanBuild {
		slog.Debug("Reusing prior configuration")
		return nil
	}
	if err := p.layout.EnsureObjDir(); err != nil {
		return newFatalStageError(StageConfigure, fmt.Errorf("%w: %v", ErrConfigure, err))
	}
	opts := cmake.ConfigureOptions{
		InstallPrefix:   p.layout.InstallDir(p.plan.InstallDirName),
		PluginName:      p.prof.PluginName,
		PluginSourceDir: p.layout.PluginSourceDir(p.prof.PluginName),
		SourceDir:       p.layout.UpstreamSourceDir(),
		Docs:            p.plan.DocsEnabled,
	}
	if err := p.tool.Configure(ctx, opts); err != nil {
		return newFatalStageError(StageConfigure, fmt.Errorf("%w: %v", ErrConfigure, err))
	}
	return nil
}
