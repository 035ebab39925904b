package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// stagePublishDocs relocates the generated doc tree to its canonical local
// name and transfers it to the documentation host. Runs only when this node
// generated docs and the run publishes binaries.
func (p *Pipeline) stagePublishDocs(ctx context.Context) error {
	if !p.plan.DocsEnabled || !p.plan.PublishBinaries {
		slog.Debug("Documentation publish not applicable",
			"docs_enabled", p.plan.DocsEnabled, "publish_binaries", p.plan.PublishBinaries)
		return nil
	}

	staging := p.layout.DocStagingDir()
	if err := os.RemoveAll(staging); err != nil {
		return newFatalStageError(StagePublishDocs, fmt.Errorf("%w: %v", ErrPublish, err))
	}
	generated := filepath.Join(p.layout.InstallDir(p.plan.InstallDirName), "docs", "html", "html")
	if err := copyTree(staging, generated); err != nil {
		return newFatalStageError(StagePublishDocs, fmt.Errorf("%w: stage doc tree: %v", ErrPublish, err))
	}
	slog.Info("Staged documentation tree", logfields.Path(staging))

	if err := p.publisher.Publish(ctx, staging, p.prof.DocsRemote); err != nil {
		return newFatalStageError(StagePublishDocs, fmt.Errorf("%w: %v", ErrPublish, err))
	}
	return nil
}

// copyTree mirrors src into dst. Symlinks are recreated rather than
// followed; generated doc trees link duplicate pages to each other.
func copyTree(dst, src string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o750)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.WriteFile(target, data, info.Mode().Perm())
		}
	})
}
