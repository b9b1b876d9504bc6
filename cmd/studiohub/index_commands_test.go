package main

import (
	"strings"
	"testing"

	"studiohub/internal/testsupport"
)

func TestCLIIndexRebuildStatusLog(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WritePoster(t, env.cfg.Paths.ArchiveRoot, "Apollo_Program")
	testsupport.WritePoster(t, env.cfg.Paths.StudioRoot, "RAM_Portal_Scene")

	out, _, err := runCLI(t, []string{"index", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("index status before rebuild: %v", err)
	}
	requireContains(t, out, "Archive posters: 0")
	requireContains(t, out, "Studio posters: 0")

	out, _, err = runCLI(t, []string{"index", "rebuild"}, env.configPath)
	if err != nil {
		t.Fatalf("index rebuild: %v", err)
	}
	requireContains(t, out, "Indexed 1 archive and 1 studio posters")

	out, _, err = runCLI(t, []string{"index", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("index status: %v", err)
	}
	requireContains(t, out, "Archive posters: 1")
	requireContains(t, out, "Studio posters: 1")
	requireContains(t, out, "Generated:")
	requireContains(t, out, "Cache: "+env.cfg.PosterIndexPath())

	out, _, err = runCLI(t, []string{"index", "status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("index status --json: %v", err)
	}
	if !strings.Contains(out, `"archive": 1`) || !strings.Contains(out, `"cache_version": 2`) {
		t.Fatalf("unexpected json status output: %q", out)
	}

	out, _, err = runCLI(t, []string{"index", "log"}, env.configPath)
	if err != nil {
		t.Fatalf("index log: %v", err)
	}
	if !strings.Contains(out, "manual") || !strings.Contains(out, "OK") {
		t.Fatalf("index log missing rebuild record: %q", out)
	}
}

func TestCLIIndexLogEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"index", "log"}, env.configPath)
	if err != nil {
		t.Fatalf("index log: %v", err)
	}
	requireContains(t, out, "No index activity recorded")
}
