package commands

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/toolbuilder/internal/config"
	"git.home.luguber.info/inful/toolbuilder/internal/plan"
)

// PlanCmd resolves the build plan from the same inputs as 'run' and prints
// it as YAML without executing any stage. Useful for debugging trigger
// metadata on a node.
type PlanCmd struct {
	inputFlags
}

func (c *PlanCmd) Run(_ *Global, root *CLI) error {
	prof, err := config.LoadProfile(root.Profile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	p := plan.Resolve(c.inputs(), prof, time.Now())
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}
