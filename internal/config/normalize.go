package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvFallbacks()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIndexing()
	if err := c.normalizePrinting(); err != nil {
		return err
	}
	c.normalizePrintCost()
	c.normalizeConsumables()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnvFallbacks() {
	if c.Paths.ArchiveRoot == "" {
		if value, ok := os.LookupEnv("STUDIOHUB_ARCHIVE_ROOT"); ok {
			c.Paths.ArchiveRoot = value
		}
	}
	if c.Paths.StudioRoot == "" {
		if value, ok := os.LookupEnv("STUDIOHUB_STUDIO_ROOT"); ok {
			c.Paths.StudioRoot = value
		}
	}
	if c.Paths.RuntimeRoot == "" {
		if value, ok := os.LookupEnv("STUDIOHUB_RUNTIME_ROOT"); ok {
			c.Paths.RuntimeRoot = value
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ArchiveRoot != "" {
		if c.Paths.ArchiveRoot, err = expandPath(c.Paths.ArchiveRoot); err != nil {
			return fmt.Errorf("paths.archive_root: %w", err)
		}
	}
	if c.Paths.StudioRoot != "" {
		if c.Paths.StudioRoot, err = expandPath(c.Paths.StudioRoot); err != nil {
			return fmt.Errorf("paths.studio_root: %w", err)
		}
	}
	if c.Paths.RuntimeRoot != "" {
		if c.Paths.RuntimeRoot, err = expandPath(c.Paths.RuntimeRoot); err != nil {
			return fmt.Errorf("paths.runtime_root: %w", err)
		}
	}
	if c.Paths.PrintJobsRoot != "" {
		if c.Paths.PrintJobsRoot, err = expandPath(c.Paths.PrintJobsRoot); err != nil {
			return fmt.Errorf("paths.print_jobs_root: %w", err)
		}
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIndexing() {
	if c.Indexing.DebounceMS <= 0 {
		c.Indexing.DebounceMS = DefaultDebounceMS
	}
	if c.Indexing.PosterCooldownSeconds < 0 {
		c.Indexing.PosterCooldownSeconds = DefaultPosterCooldownSeconds
	}
}

func (c *Config) normalizePrinting() error {
	size := strings.TrimSpace(c.Printing.DefaultSize)
	if size == "" {
		size = DefaultPrintSize
	}
	if !isKnownPrintSize(size) {
		return fmt.Errorf("printing.default_size: unknown size %q", size)
	}
	c.Printing.DefaultSize = size
	return nil
}

func (c *Config) normalizePrintCost() {
	if c.PrintCost.PaperCostPerFoot < 0 {
		c.PrintCost.PaperCostPerFoot = DefaultPaperCostPerFoot
	}
	if c.PrintCost.WastePct < 0 {
		c.PrintCost.WastePct = 0
	}
	if c.PrintCost.InkCostPerML < 0 {
		c.PrintCost.InkCostPerML = DefaultInkCostPerML
	}
	if c.PrintCost.InkMLPerSqFt < 0 {
		c.PrintCost.InkMLPerSqFt = DefaultInkMLPerSqFt
	}
}

func (c *Config) normalizeConsumables() {
	if strings.TrimSpace(c.Consumables.PaperName) == "" {
		c.Consumables.PaperName = DefaultPaperName
	}
	if c.Consumables.PaperRollStartFeet <= 0 {
		c.Consumables.PaperRollStartFeet = DefaultPaperRollStartFeet
	}
	if c.Consumables.PaperRollResetAt < 0 {
		c.Consumables.PaperRollResetAt = DefaultPaperRollResetAt
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "console", "json":
	default:
		format = DefaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = DefaultLogLevel
	}
	c.Logging.Level = level
}

func isKnownPrintSize(size string) bool {
	switch size {
	case "12x18", "18x24", "24x36":
		return true
	}
	return false
}
