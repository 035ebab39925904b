package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// stageClean removes the install and build-object directories for clean
// builds. Removal is idempotent: absent directories are not an error.
func (p *Pipeline) stageClean(_ context.Context) error {
	if !p.plan.CleanBuild {
		slog.Debug("Incremental build, keeping prior build cache")
		return nil
	}
	for _, dir := range []string{
		p.layout.InstallDir(p.plan.InstallDirName),
		p.layout.ObjDir(),
	} {
		slog.Info("Removing directory", logfields.Path(dir))
		if err := os.RemoveAll(dir); err != nil {
			return newFatalStageError(StageClean, fmt.Errorf("%w: remove %s: %v", ErrClean, dir, err))
		}
	}
	return nil
}
