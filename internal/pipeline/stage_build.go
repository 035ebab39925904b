package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Directories the install target expects to exist even when documentation
// output is empty, relative to the build-object directory.
var docInstallDirs = []string{
	filepath.Join("tools", "clang", "docs", "doxygen", "html"),
	filepath.Join("docs", "doxygen", "html"),
}

// stageBuild runs the default build target, the documentation sub-stage and
// the install target, in that order. Documentation must precede install
// because the install target copies the generated doc directories.
func (p *Pipeline) stageBuild(ctx context.Context) error {
	if err := p.tool.Build(ctx, ""); err != nil {
		return newFatalStageError(StageBuild, fmt.Errorf("%w: %v", ErrBuild, err))
	}
	if err := p.documentation(ctx); err != nil {
		return err
	}
	if err := p.tool.Build(ctx, "install"); err != nil {
		return newFatalStageError(StageBuild, fmt.Errorf("%w: install: %v", ErrBuild, err))
	}
	return nil
}

// documentation generates the doxygen tree on doc-capable nodes and makes
// sure the install-expected directories exist afterward. Failures carry the
// documentation stage identity even though the driver is mid-build.
func (p *Pipeline) documentation(ctx context.Context) error {
	if !p.plan.DocsEnabled {
		slog.Debug("Documentation not enabled on this node")
		return nil
	}
	p.state = StateDocumenting
	defer func() { p.state = StateBuilding }()

	if err := p.tool.Build(ctx, "doxygen-"+p.prof.PluginName); err != nil {
		return newFatalStageError(StageDocumentation, fmt.Errorf("%w: %v", ErrDocumentation, err))
	}
	for _, rel := range docInstallDirs {
		if err := os.MkdirAll(filepath.Join(p.layout.ObjDir(), rel), 0o750); err != nil {
			return newFatalStageError(StageDocumentation, fmt.Errorf("%w: %v", ErrDocumentation, err))
		}
	}
	return nil
}
