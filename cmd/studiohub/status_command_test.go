package main

import (
	"testing"

	"studiohub/internal/testsupport"
)

func TestCLIStatusDashboardFresh(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, section := range []string{"== Hub ==", "== Poster Index ==", "== Print Queue ==", "== Paper ==", "== Print History =="} {
		requireContains(t, out, section)
	}
	requireContains(t, out, "not running (start with 'studiohub serve')")
	requireContains(t, out, "none indexed (run 'studiohub index rebuild')")
	requireContains(t, out, "queue is empty")
	requireContains(t, out, "not tracked (run 'studiohub paper replace')")
	requireContains(t, out, "[INFO] never")
}

func TestCLIStatusDashboardPopulated(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WritePoster(t, env.cfg.Paths.ArchiveRoot, "Apollo_Program")

	if _, _, err := runCLI(t, []string{"index", "rebuild"}, env.configPath); err != nil {
		t.Fatalf("index rebuild: %v", err)
	}
	if _, _, err := runCLI(t, []string{"paper", "replace", "Lustre Satin", "100"}, env.configPath); err != nil {
		t.Fatalf("paper replace: %v", err)
	}
	if _, _, err := runCLI(t, []string{"queue", "add", "Apollo Program"}, env.configPath); err != nil {
		t.Fatalf("queue add: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "1 indexed, 0% complete")
	requireContains(t, out, "Lustre Satin, 100 ft of 100 ft left (100%)")
	requireContains(t, out, "Queued:")
	requireContains(t, out, "1 items")
	requireContains(t, out, "0 sheets (0 archive, 0 studio)")
	requireContains(t, out, "0 sheets (+0 vs last month)")
}
