package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the content roots and runtime directories.
type Paths struct {
	ArchiveRoot   string `toml:"archive_root"`
	StudioRoot    string `toml:"studio_root"`
	RuntimeRoot   string `toml:"runtime_root"`
	PrintJobsRoot string `toml:"print_jobs_root"`
	CacheDir      string `toml:"cache_dir"`
	LogDir        string `toml:"log_dir"`
}

// Indexing contains tuning for the poster index watcher and rebuilds.
type Indexing struct {
	ScanOnStart           bool `toml:"scan_on_start"`
	DebounceMS            int  `toml:"debounce_ms"`
	PosterCooldownSeconds int  `toml:"poster_cooldown_seconds"`
}

// Printing contains print queue behavior for this machine.
type Printing struct {
	IsPrimaryPrinter  bool   `toml:"is_primary_printer"`
	DefaultSize       string `toml:"default_size"`
	AllowPairing12x18 bool   `toml:"allow_pairing_12x18"`
	AutoCommitPaper   bool   `toml:"auto_commit_paper"`
	AutoLogPrints     bool   `toml:"auto_log_prints"`
}

// PrintCost contains the per-print cost model inputs.
type PrintCost struct {
	PaperCostPerFoot float64 `toml:"paper_cost_per_foot"`
	WastePct         float64 `toml:"waste_pct"`
	InkCostPerML     float64 `toml:"ink_cost_per_ml"`
	InkMLPerSqFt     float64 `toml:"ink_ml_per_sqft"`
}

// Consumables contains the paper roll defaults used when replacing stock.
type Consumables struct {
	PaperName          string  `toml:"paper_name"`
	PaperRollStartFeet float64 `toml:"paper_roll_start_feet"`
	PaperRollResetAt   float64 `toml:"paper_roll_reset_at"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for StudioHub.
//
// Configuration sections by subsystem:
//   - Paths: archive/studio content roots, shared runtime root, print hot folder
//   - Indexing: watcher debounce and startup scan behavior
//   - Printing: queue pairing and ledger auto-commit policy
//   - PrintCost: paper and ink cost model
//   - Consumables: paper roll defaults
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Indexing    Indexing    `toml:"indexing"`
	Printing    Printing    `toml:"printing"`
	PrintCost   PrintCost   `toml:"print_cost"`
	Consumables Consumables `toml:"consumables"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/studiohub/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/studiohub/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("studiohub.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the runtime directories the hub writes into.
// The content roots are never created here; they belong to the studio's
// storage and their absence is surfaced by Validate instead.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir, c.LedgerDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.PrintJobsRoot) != "" {
		if err := os.MkdirAll(c.Paths.PrintJobsRoot, 0o755); err != nil {
			return fmt.Errorf("create print jobs directory %q: %w", c.Paths.PrintJobsRoot, err)
		}
	}
	return nil
}

// PosterIndexPath returns the machine-local poster index cache file.
func (c *Config) PosterIndexPath() string {
	return filepath.Join(c.Paths.CacheDir, "poster_index.json")
}

// MtimeCachePath returns the fingerprint cache that sits beside the index.
func (c *Config) MtimeCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "poster_mtime_cache.json")
}

// IndexLogPath returns the machine-local index audit log.
func (c *Config) IndexLogPath() string {
	return filepath.Join(c.Paths.LogDir, "index_log.jsonl")
}

// LedgerDir returns the shared runtime log directory holding the ledgers.
func (c *Config) LedgerDir() string {
	return filepath.Join(c.Paths.RuntimeRoot, "logs")
}

// PaperLedgerPath returns the shared append-only paper ledger.
func (c *Config) PaperLedgerPath() string {
	return filepath.Join(c.LedgerDir(), "paper_ledger.jsonl")
}

// PrintLogPath returns the shared print history journal.
func (c *Config) PrintLogPath() string {
	return filepath.Join(c.LedgerDir(), "print_log.jsonl")
}

// QueueDBPath returns the machine-local print queue database.
func (c *Config) QueueDBPath() string {
	return filepath.Join(c.Paths.LogDir, "queue.db")
}

// LockFilePath returns the hub single-instance lock file.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.LogDir, "studiohub.lock")
}

// LogFilePath returns the hub's own log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "studiohub.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath expands a leading ~ and resolves the path to absolute form,
// the same rules applied to configured paths.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
