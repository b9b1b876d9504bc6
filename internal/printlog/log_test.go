package printlog_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studiohub/internal/printlog"
)

func newLog(t *testing.T) *printlog.Log {
	t.Helper()
	return printlog.NewLog(filepath.Join(t.TempDir(), "logs", "print_log.jsonl"))
}

func appendJob(t *testing.T, l *printlog.Log, timestamp, mode, size string, cost float64, files ...printlog.FileRef) printlog.Record {
	t.Helper()
	rec, err := l.Append(printlog.Record{
		Timestamp:    timestamp,
		Mode:         mode,
		Size:         size,
		Files:        files,
		PrintCostUSD: cost,
	})
	if err != nil {
		t.Fatalf("append job: %v", err)
	}
	return rec
}

func TestAppendStampsRecordAndWritesJSONL(t *testing.T) {
	l := newLog(t)

	rec, err := l.Append(printlog.Record{
		Mode:         printlog.Mode2Up,
		Size:         "18x24",
		PrintCostUSD: 12.5,
		Files: []printlog.FileRef{
			{Path: "/archive/Apollo_Program/PRINT/12x18/a.tif", Source: "archive", PosterID: "Apollo Program"},
			{Path: "/archive/Moon_Map/PRINT/12x18/b.tif", Source: "archive", PosterID: "Moon Map"},
		},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.Schema != printlog.SchemaV2 {
		t.Fatalf("schema = %q, want %q", rec.Schema, printlog.SchemaV2)
	}
	if rec.Timestamp == "" || rec.Machine == "" {
		t.Fatalf("expected timestamp and machine stamped, got %+v", rec)
	}
	if _, err := time.Parse("2006-01-02T15:04:05", rec.Timestamp); err != nil {
		t.Fatalf("timestamp %q not seconds precision: %v", rec.Timestamp, err)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var onDisk map[string]any
	if err := json.Unmarshal([]byte(line), &onDisk); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	for _, key := range []string{"schema", "timestamp", "machine", "mode", "size", "files", "print_cost_usd", "is_reprint", "waste_incurred"} {
		if _, ok := onDisk[key]; !ok {
			t.Fatalf("log line missing %q: %s", key, line)
		}
	}
	if onDisk["mode"] != "2up" || onDisk["is_reprint"] != false {
		t.Fatalf("unexpected line contents: %s", line)
	}
}

func TestLoadReturnsJobsNewestFirst(t *testing.T) {
	l := newLog(t)
	appendJob(t, l, "2026-03-14T09:30:00", printlog.ModeSingle, "18x24", 10,
		printlog.FileRef{Path: "/a.tif", Source: "archive", PosterID: "Apollo Program"})
	appendJob(t, l, "2026-03-14T10:00:00", printlog.Mode2Up, "18x24", 14,
		printlog.FileRef{Path: "/b.tif", Source: "studio", PosterID: "Dust2 Map"},
		printlog.FileRef{Path: "/c.tif", Source: "studio", PosterID: "Inferno Map"})

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].JobID != "2026-03-14T10:00:00" || jobs[1].JobID != "2026-03-14T09:30:00" {
		t.Fatalf("expected newest first, got %q then %q", jobs[0].JobID, jobs[1].JobID)
	}
	if jobs[0].Mode != printlog.Mode2Up || len(jobs[0].Files) != 2 {
		t.Fatalf("unexpected job row: %+v", jobs[0])
	}
	if jobs[1].CostUSD != 10 {
		t.Fatalf("cost = %v, want 10", jobs[1].CostUSD)
	}
}

func TestFailureAndReprintEventsMergeOntoBaseRow(t *testing.T) {
	l := newLog(t)
	rec := appendJob(t, l, "2026-03-14T09:30:00", printlog.ModeSingle, "18x24", 10,
		printlog.FileRef{Path: "/a.tif", Source: "archive", PosterID: "Apollo Program"})

	failedAt := time.Date(2026, time.March, 14, 9, 45, 0, 0, time.UTC)
	if err := l.RecordFailure(rec.Timestamp, 6.5, "head strike", failedAt); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	reprintedAt := failedAt.Add(30 * time.Minute)
	if err := l.RecordReprint(rec.Timestamp, "2026-03-14T10:15:00", reprintedAt); err != nil {
		t.Fatalf("record reprint: %v", err)
	}

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 merged job, got %d", len(jobs))
	}
	job := jobs[0]
	if !job.Failed {
		t.Fatal("expected job marked failed")
	}
	if job.FailedAt == nil || !job.FailedAt.Equal(failedAt) {
		t.Fatalf("failed_at = %v, want %v", job.FailedAt, failedAt)
	}
	if job.ActualIn == nil || *job.ActualIn != 6.5 {
		t.Fatalf("actual_in = %v, want 6.5", job.ActualIn)
	}
	if job.FailReason != "head strike" {
		t.Fatalf("reason = %q", job.FailReason)
	}
	if !job.Reprinted || job.ReprintedAt == nil || !job.ReprintedAt.Equal(reprintedAt) {
		t.Fatalf("expected reprint merged, got %+v", job)
	}
	// Base fields survive the merge untouched.
	if job.Mode != printlog.ModeSingle || job.Size != "18x24" || job.CostUSD != 10 {
		t.Fatalf("base fields lost: %+v", job)
	}
}

func TestEventsForUnknownParentsAreSkipped(t *testing.T) {
	l := newLog(t)
	appendJob(t, l, "2026-03-14T09:30:00", printlog.ModeSingle, "18x24", 10)
	if err := l.RecordFailure("2030-01-01T00:00:00", 3, "", time.Time{}); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Failed {
		t.Fatalf("expected one unaffected job, got %+v", jobs)
	}
}

func TestLoadSkipsMalformedAndUnknownLines(t *testing.T) {
	l := newLog(t)
	rec := appendJob(t, l, "2026-03-14T09:30:00", printlog.ModeSingle, "18x24", 10)

	file, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	lines := []string{
		"{not json",
		`{"schema":"print_log_v1","timestamp":"2026-03-14T11:00:00","mode":"single","size":"18x24","file_1":"/old.tif"}`,
		`{"schema":"mystery_v9","timestamp":"2026-03-14T11:30:00"}`,
		"",
	}
	if _, err := file.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		t.Fatalf("write noise: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobID != rec.Timestamp {
		t.Fatalf("expected only the valid job, got %+v", jobs)
	}
}

func TestLegacyFailureCorrectionTreatedAsFailureEvent(t *testing.T) {
	l := newLog(t)
	rec := appendJob(t, l, "2026-03-14T09:30:00", printlog.ModeSingle, "18x24", 10)

	correction := `{"schema":"print_log_v2","timestamp":"` + rec.Timestamp + `","failed":true,"actual_in":4.25}`
	file, err := os.OpenFile(l.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := file.WriteString(correction + "\n"); err != nil {
		t.Fatalf("write correction: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if !jobs[0].Failed {
		t.Fatal("expected legacy correction to mark job failed")
	}
	if jobs[0].ActualIn == nil || *jobs[0].ActualIn != 4.25 {
		t.Fatalf("actual_in = %v, want 4.25", jobs[0].ActualIn)
	}
	if jobs[0].FailedAt != nil {
		t.Fatalf("legacy corrections carry no failure time, got %v", jobs[0].FailedAt)
	}
}

func TestLoadNormalizesLegacyFileSources(t *testing.T) {
	l := newLog(t)
	line := `{"schema":"print_log_v2","timestamp":"2026-03-14T09:30:00","machine":"studio-pc","mode":"single","size":"18x24",` +
		`"files":[{"path":"/p.tif","source":"patents","name":"Moon Map"},{"path":"/q.tif","source":"weird","poster_id":"X"}],` +
		`"print_cost_usd":9.0,"is_reprint":false,"waste_incurred":false}`
	if err := os.MkdirAll(filepath.Dir(l.Path()), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(l.Path(), []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 1 || len(jobs[0].Files) != 2 {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
	first := jobs[0].Files[0]
	if first.Source != "archive" {
		t.Fatalf("legacy source = %q, want archive", first.Source)
	}
	if first.PosterID != "Moon Map" {
		t.Fatalf("expected name fallback for poster id, got %q", first.PosterID)
	}
	if jobs[0].Files[1].Source != "" {
		t.Fatalf("unknown source should be dropped, got %q", jobs[0].Files[1].Source)
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	l := newLog(t)
	jobs, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}
