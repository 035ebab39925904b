package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
	"git.home.luguber.info/inful/toolbuilder/internal/publish"
	"git.home.luguber.info/inful/toolbuilder/internal/workspace"
)

// stagePackaging recreates the artifacts directory and, for publishing
// runs, produces the docs bundle, the install-tree bundle and (on the
// source-publisher node) the VCS-stripped source bundle. Non-publishing
// runs still get the empty artifacts directory the CI copy step expects.
func (p *Pipeline) stagePackaging(ctx context.Context) error {
	artifacts := p.layout.ArtifactsDir()
	if err := os.RemoveAll(artifacts); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: %v", ErrPackage, err))
	}
	if err := os.MkdirAll(artifacts, 0o750); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: %v", ErrPackage, err))
	}
	if !p.plan.PublishBinaries {
		slog.Debug("Not publishing binaries, artifacts directory left empty")
		return nil
	}

	if p.plan.DocsEnabled {
		if err := p.packageDocs(ctx); err != nil {
			return err
		}
	}

	// The install tree itself is the primary artifact.
	dest := filepath.Join(artifacts, p.plan.InstallDirName+publish.Ext)
	if err := p.archiver.Archive(ctx, p.layout.Root(), []string{p.plan.InstallDirName}, dest); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: %v", ErrPackage, err))
	}
	p.addArtifact(dest)

	if p.plan.SourcePublisher {
		if err := p.packageSources(ctx); err != nil {
			return err
		}
	}
	return nil
}

// packageDocs archives the install-tree docs and removes them from the
// install tree so they do not end up in the binary bundle.
func (p *Pipeline) packageDocs(ctx context.Context) error {
	docsDir := filepath.Join(p.layout.InstallDir(p.plan.InstallDirName), "docs")
	dest := filepath.Join(p.layout.ArtifactsDir(),
		fmt.Sprintf("%s_%s_docs%s", p.prof.ToolName, p.plan.Today, publish.Ext))
	if err := p.archiver.Archive(ctx, docsDir, []string{"html"}, dest); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: docs bundle: %v", ErrPackage, err))
	}
	if err := os.RemoveAll(docsDir); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: strip docs from install tree: %v", ErrPackage, err))
	}
	p.addArtifact(dest)
	return nil
}

// packageSources strips version-control metadata from the source checkout
// and archives it as a dated bundle.
func (p *Pipeline) packageSources(ctx context.Context) error {
	if err := os.RemoveAll(filepath.Join(p.layout.SourceDir(), ".git")); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: strip VCS metadata: %v", ErrPackage, err))
	}
	dest := filepath.Join(p.layout.ArtifactsDir(),
		fmt.Sprintf("%s_%s_sources%s", p.prof.ToolName, p.plan.Today, publish.Ext))
	if err := p.archiver.Archive(ctx, p.layout.Root(), []string{workspace.SourceDirName}, dest); err != nil {
		return newFatalStageError(StagePackaging, fmt.Errorf("%w: source bundle: %v", ErrPackage, err))
	}
	p.addArtifact(dest)
	return nil
}

func (p *Pipeline) addArtifact(path string) {
	p.report.Artifacts = append(p.report.Artifacts, path)
	slog.Info("Artifact packaged", logfields.Artifact(path))
}
