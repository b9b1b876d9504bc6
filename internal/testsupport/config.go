package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"studiohub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The content roots are created on disk; cache and log directories are left
// to the components that own them.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ArchiveRoot = filepath.Join(base, "Archive")
	cfgVal.Paths.StudioRoot = filepath.Join(base, "Studio")
	cfgVal.Paths.RuntimeRoot = filepath.Join(base, "Runtime")
	cfgVal.Paths.PrintJobsRoot = filepath.Join(base, "PrintJobs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	for _, dir := range []string{
		cfgVal.Paths.ArchiveRoot,
		cfgVal.Paths.StudioRoot,
		cfgVal.Paths.RuntimeRoot,
		cfgVal.Paths.PrintJobsRoot,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDebounceMS overrides the watcher debounce interval.
func WithDebounceMS(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Indexing.DebounceMS = ms
	}
}

// WithPosterCooldown overrides the incremental per-poster cooldown.
func WithPosterCooldown(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Indexing.PosterCooldownSeconds = seconds
	}
}

// WithScanOnStart toggles the full rebuild the hub kicks off at startup.
func WithScanOnStart(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Indexing.ScanOnStart = enabled
	}
}

// WithPrimaryPrinter toggles whether this machine appends print log records.
func WithPrimaryPrinter(primary bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Printing.IsPrimaryPrinter = primary
	}
}

// WithAutoCommitPaper toggles automatic ledger commits when jobs are sent.
func WithAutoCommitPaper(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Printing.AutoCommitPaper = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ArchiveRoot)
}
