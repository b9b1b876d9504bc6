package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studiohub/internal/printlog"
	"studiohub/internal/testsupport"
)

func TestCLIPrintSendFailRequeue(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WritePoster(t, env.cfg.Paths.ArchiveRoot, "Apollo_Program")

	if _, _, err := runCLI(t, []string{"index", "rebuild"}, env.configPath); err != nil {
		t.Fatalf("index rebuild: %v", err)
	}
	if _, _, err := runCLI(t, []string{"paper", "replace", "Lustre Satin", "100"}, env.configPath); err != nil {
		t.Fatalf("paper replace: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, _, err := runCLI(t, []string{"queue", "add", "Apollo Program"}, env.configPath); err != nil {
			t.Fatalf("queue add: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"print", "send"}, env.configPath)
	if err != nil {
		t.Fatalf("print send: %v", err)
	}
	requireContains(t, out, "Sent 1 jobs (2 sheets)")
	requireContains(t, out, "  ticket ")
	requireContains(t, out, "  logged job ")

	ticketPath := filepath.Join(env.cfg.Paths.PrintJobsRoot, "job_0001.txt")
	ticket, err := os.ReadFile(ticketPath)
	if err != nil {
		t.Fatalf("read ticket: %v", err)
	}
	if !strings.Contains(string(ticket), "Apollo_Program_AntiqueParchment.tif") {
		t.Fatalf("ticket missing sheet path: %q", string(ticket))
	}
	if lines := strings.Split(strings.TrimSpace(string(ticket)), "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 sheet paths in ticket, got %d: %q", len(lines), string(ticket))
	}

	jobs, err := printlog.NewLog(env.cfg.PrintLogPath()).Load()
	if err != nil {
		t.Fatalf("load print log: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 logged job, got %d", len(jobs))
	}
	jobID := jobs[0].JobID
	if jobs[0].Mode != printlog.Mode2Up || jobs[0].Size != "18x24" {
		t.Fatalf("expected paired 18x24 job, got mode %q size %q", jobs[0].Mode, jobs[0].Size)
	}

	// A paired sheet feeds 24 inches of the roll.
	out, _, err = runCLI(t, []string{"paper", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("paper status: %v", err)
	}
	requireContains(t, out, "Remaining: 98.0 ft of 100.0 ft (98%)")

	out, _, err = runCLI(t, []string{"print", "log"}, env.configPath)
	if err != nil {
		t.Fatalf("print log: %v", err)
	}
	requireContains(t, out, jobID)
	requireContains(t, out, "2up")
	requireContains(t, out, "Printed")

	out, _, err = runCLI(t, []string{"print", "fail", jobID, "6", "--reason", "head strike"}, env.configPath)
	if err != nil {
		t.Fatalf("print fail: %v", err)
	}
	requireContains(t, out, "Recorded failed print for job "+jobID)

	out, _, err = runCLI(t, []string{"print", "log"}, env.configPath)
	if err != nil {
		t.Fatalf("print log after failure: %v", err)
	}
	requireContains(t, out, "Failed: head strike")

	out, _, err = runCLI(t, []string{"paper", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("paper status after credit: %v", err)
	}
	requireContains(t, out, "Remaining: 99.5 ft of 100.0 ft (99%)")

	out, _, err = runCLI(t, []string{"print", "requeue"}, env.configPath)
	if err != nil {
		t.Fatalf("print requeue: %v", err)
	}
	requireContains(t, out, "Requeued 2 printed items")

	out, _, err = runCLI(t, []string{"queue", "status"}, env.configPath)
	if err != nil {
		t.Fatalf("queue status after requeue: %v", err)
	}
	requireContains(t, out, "Queued")

	if _, _, err := runCLI(t, []string{"queue", "clear"}, env.configPath); err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	out, _, err = runCLI(t, []string{"print", "send"}, env.configPath)
	if err != nil {
		t.Fatalf("print send empty: %v", err)
	}
	requireContains(t, out, "Queue is empty")
}

func TestCLIPrintReprint(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"paper", "replace", "Lustre Satin", "100"}, env.configPath); err != nil {
		t.Fatalf("paper replace: %v", err)
	}

	seeded, err := printlog.NewLog(env.cfg.PrintLogPath()).Append(printlog.Record{
		Timestamp:    "2025-07-01T09:00:00",
		Mode:         printlog.ModeSingle,
		Size:         "12x18",
		Files:        []printlog.FileRef{{Path: "/archive/Apollo_Program/PRINT/12x18/Apollo_Program_AntiqueParchment.tif", Source: "archive", PosterID: "Apollo Program — Antique Parchment"}},
		PrintCostUSD: 2.05,
	})
	if err != nil {
		t.Fatalf("seed print log: %v", err)
	}

	out, _, err := runCLI(t, []string{"print", "reprint", seeded.Timestamp}, env.configPath)
	if err != nil {
		t.Fatalf("print reprint: %v", err)
	}
	requireContains(t, out, "Reprint sent as job ")

	ticket, err := os.ReadFile(filepath.Join(env.cfg.Paths.PrintJobsRoot, "job_0001.txt"))
	if err != nil {
		t.Fatalf("read reprint ticket: %v", err)
	}
	requireContains(t, string(ticket), "Apollo_Program_AntiqueParchment.tif")

	jobs, err := printlog.NewLog(env.cfg.PrintLogPath()).Load()
	if err != nil {
		t.Fatalf("load print log: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 logged jobs, got %d", len(jobs))
	}
	var original printlog.JobRecord
	for _, job := range jobs {
		if job.JobID == seeded.Timestamp {
			original = job
		}
	}
	if !original.Reprinted {
		t.Fatalf("expected original job marked reprinted, got %+v", original)
	}

	_, _, err = runCLI(t, []string{"print", "reprint", "bogus"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "print job bogus not found") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
