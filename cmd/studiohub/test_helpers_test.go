package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studiohub/internal/config"
	"studiohub/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
archive_root = %q
studio_root = %q
runtime_root = %q
print_jobs_root = %q
cache_dir = %q
log_dir = %q

[indexing]
scan_on_start = %v
debounce_ms = %d
poster_cooldown_seconds = %d

[printing]
is_primary_printer = %v
default_size = %q
allow_pairing_12x18 = %v
auto_commit_paper = %v
auto_log_prints = %v
`,
		cfg.Paths.ArchiveRoot,
		cfg.Paths.StudioRoot,
		cfg.Paths.RuntimeRoot,
		cfg.Paths.PrintJobsRoot,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
		cfg.Indexing.ScanOnStart,
		cfg.Indexing.DebounceMS,
		cfg.Indexing.PosterCooldownSeconds,
		cfg.Printing.IsPrimaryPrinter,
		cfg.Printing.DefaultSize,
		cfg.Printing.AllowPairing12x18,
		cfg.Printing.AutoCommitPaper,
		cfg.Printing.AutoLogPrints,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got %q", substr, output)
	}
}
