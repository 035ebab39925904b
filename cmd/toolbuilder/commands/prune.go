package commands

import (
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/prune"
)

// PruneCmd removes stamped build directories older than the retention
// window. Aborted runs skip their own housekeeping, so this sweep is what
// keeps build nodes from filling up.
type PruneCmd struct {
	Dir  string `arg:"" help:"Directory to sweep (typically the parent of the CI workspaces)" type:"existingdir"`
	Days int    `help:"Retention in days; defaults to the profile setting"`
}

func (c *PruneCmd) Run(_ *Global, root *CLI) error {
	prof, err := config.LoadProfile(root.Profile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	days := c.Days
	if days == 0 {
		days = prof.PruneAfterDays
	}
	removed, err := prune.Stale(c.Dir, prof.ToolName+"_", time.Duration(days)*24*time.Hour, time.Now())
	if err != nil {
		return err
	}
	slog.Info("Prune completed", "removed", len(removed))
	return nil
}
