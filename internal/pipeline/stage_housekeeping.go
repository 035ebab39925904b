package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// stageHousekeeping removes the install directory; its contents were
// archived during packaging. Failure is tolerated: a leftover install tree
// wastes disk but the run already produced its artifacts.
func (p *Pipeline) stageHousekeeping(_ context.Context) error {
	dir := p.layout.InstallDir(p.plan.InstallDirName)
	slog.Info("Removing install directory", logfields.Path(dir))
	if err := os.RemoveAll(dir); err != nil {
		return newWarnStageError(StageHousekeeping, fmt.Errorf("%w: %v", ErrHousekeeping, err))
	}
	return nil
}
