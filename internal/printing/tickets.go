package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ticketPattern matches the job tickets the Photoshop worker consumes.
const ticketPattern = "job_*.txt"

// WriteTickets replaces the tickets under dir with one file per job,
// numbered from job_0001.txt.
func WriteTickets(dir string, jobs []Job) ([]string, error) {
	batches := make([][]string, len(jobs))
	for i, job := range jobs {
		batches[i] = job.Paths()
	}
	return writeTicketFiles(dir, batches)
}

// writeTicketFiles clears stale tickets and writes one numbered ticket per
// batch, one sheet path per line. Paths are written with forward slashes so
// the worker reads them on any platform.
func writeTicketFiles(dir string, batches [][]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create print jobs directory: %w", err)
	}

	stale, err := filepath.Glob(filepath.Join(dir, ticketPattern))
	if err != nil {
		return nil, fmt.Errorf("list stale tickets: %w", err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale ticket: %w", err)
		}
	}

	written := make([]string, 0, len(batches))
	for i, paths := range batches {
		lines := make([]string, 0, len(paths))
		for _, path := range paths {
			lines = append(lines, strings.ReplaceAll(path, "\\", "/"))
		}
		path := filepath.Join(dir, fmt.Sprintf("job_%04d.txt", i+1))
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return nil, fmt.Errorf("write ticket %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
	}
	return written, nil
}
