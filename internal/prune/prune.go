// Package prune removes stale stamped build directories left behind by
// earlier runs. Aborted pipelines skip their own housekeeping, so old
// install trees accumulate; this is the mitigation.
package prune

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/toolbuilder/internal/logfields"
)

// Stale removes directories under dir whose name starts with prefix and
// whose modification time is older than maxAge relative to now. It returns
// the paths that were removed. Individual removal failures are logged and
// do not stop the sweep.
func Stale(dir, prefix string, maxAge time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	cutoff := now.Add(-maxAge)

	var removed []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			slog.Warn("Skipping unreadable entry", logfields.Path(full), logfields.Error(err))
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		slog.Info("Removing stale build directory", logfields.Path(full))
		if err := os.RemoveAll(full); err != nil {
			slog.Warn("Failed to remove stale directory", logfields.Path(full), logfields.Error(err))
			continue
		}
		removed = append(removed, full)
	}
	return removed, nil
}
