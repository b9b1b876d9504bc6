package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete enough to run the hub.
// Required paths produce guidance errors so a fresh install knows what to set.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Paths.ArchiveRoot) == "" {
		missing = append(missing, "paths.archive_root")
	}
	if strings.TrimSpace(c.Paths.StudioRoot) == "" {
		missing = append(missing, "paths.studio_root")
	}
	if strings.TrimSpace(c.Paths.RuntimeRoot) == "" {
		missing = append(missing, "paths.runtime_root")
	}
	if strings.TrimSpace(c.Paths.PrintJobsRoot) == "" {
		missing = append(missing, "paths.print_jobs_root")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings %s; create a config with 'studiohub config init' and fill them in", strings.Join(missing, ", "))
	}

	if c.Indexing.DebounceMS > 60_000 {
		return fmt.Errorf("indexing.debounce_ms: %d exceeds 60000", c.Indexing.DebounceMS)
	}
	if c.PrintCost.WastePct > 1 {
		return fmt.Errorf("print_cost.waste_pct: %.2f exceeds 1.0", c.PrintCost.WastePct)
	}
	if c.Consumables.PaperRollResetAt > c.Consumables.PaperRollStartFeet {
		return fmt.Errorf("consumables.paper_roll_reset_at: %.1f exceeds paper_roll_start_feet %.1f",
			c.Consumables.PaperRollResetAt, c.Consumables.PaperRollStartFeet)
	}
	return nil
}
