package report

import (
	"path/filepath"
	"strings"
	"time"

	"studiohub/internal/index"
	"studiohub/internal/ledger"
	"studiohub/internal/printlog"
	"studiohub/internal/textutil"
)

// Completeness counts how many posters in one source have nothing missing.
type Completeness struct {
	Posters  int
	Complete int
}

// Percent returns the complete share as a whole percentage. An empty
// catalog reads as 0, not 100.
func (c Completeness) Percent() int {
	if c.Posters == 0 {
		return 0
	}
	return c.Complete * 100 / c.Posters
}

// PaperSummary is the dashboard view of the active roll. Feet and percent
// are truncated to whole numbers the way the dashboard presents them.
type PaperSummary struct {
	Name        string
	Tracked     bool
	RemainingFt int
	TotalFt     int
	Percent     int
	ReplacedAt  time.Time
}

// BuildPaperSummary condenses the ledger state for display. Before the
// first roll replacement footage is untracked and everything reads zero.
func BuildPaperSummary(state ledger.State) PaperSummary {
	summary := PaperSummary{
		Name:       state.PaperName,
		Tracked:    state.Tracked,
		ReplacedAt: state.LastReplaced,
	}
	if !state.Tracked {
		return summary
	}
	summary.RemainingFt = int(state.RemainingFt)
	summary.TotalFt = int(state.TotalFt)
	if state.TotalFt > 0 {
		summary.Percent = int(state.RemainingFt / state.TotalFt * 100)
	}
	return summary
}

// PrintCounts tallies printed files per source inside one time window.
// Every file on a job counts once, so a paired sheet counts two.
type PrintCounts struct {
	Archive int
	Studio  int
}

// Total sums both sources.
func (c PrintCounts) Total() int {
	return c.Archive + c.Studio
}

// MonthlyPrintCounts carries the current calendar month's counts and the
// change against the previous month.
type MonthlyPrintCounts struct {
	Current      PrintCounts
	DeltaArchive int
	DeltaStudio  int
}

// DeltaTotal sums both per-source deltas.
func (m MonthlyPrintCounts) DeltaTotal() int {
	return m.DeltaArchive + m.DeltaStudio
}

// Summary is the aggregate snapshot the status command renders.
type Summary struct {
	Archive     Completeness
	Studio      Completeness
	Paper       PaperSummary
	Last30Days  PrintCounts
	Month       MonthlyPrintCounts
	LastPrintAt time.Time
}

// BuildSummary aggregates the index, the ledger state, and the print
// history as of now. Jobs are expected newest first, as printlog returns
// them.
func BuildSummary(idx *index.Index, state ledger.State, jobs []printlog.JobRecord, now time.Time) Summary {
	archiveTotal, studioTotal := idx.Counts()
	c := newClassifier(idx)

	monthStart := startOfMonth(now)
	prevEnd := monthStart.Add(-time.Second)
	prevStart := startOfMonth(prevEnd)

	current := countBetween(c, jobs, monthStart, now)
	previous := countBetween(c, jobs, prevStart, prevEnd)

	summary := Summary{
		Archive:    Completeness{Posters: archiveTotal, Complete: archiveTotal - len(MissingArchive(idx))},
		Studio:     Completeness{Posters: studioTotal, Complete: studioTotal - len(MissingStudio(idx))},
		Paper:      BuildPaperSummary(state),
		Last30Days: countSince(c, jobs, now.AddDate(0, 0, -30)),
		Month: MonthlyPrintCounts{
			Current:      current,
			DeltaArchive: current.Archive - previous.Archive,
			DeltaStudio:  current.Studio - previous.Studio,
		},
	}
	if len(jobs) > 0 {
		summary.LastPrintAt = jobs[0].Timestamp
	}
	return summary
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func countSince(c *classifier, jobs []printlog.JobRecord, cutoff time.Time) PrintCounts {
	var counts PrintCounts
	for _, job := range jobs {
		if job.Timestamp.Before(cutoff) {
			continue
		}
		addCounts(&counts, c, job)
	}
	return counts
}

func countBetween(c *classifier, jobs []printlog.JobRecord, start, end time.Time) PrintCounts {
	var counts PrintCounts
	for _, job := range jobs {
		if job.Timestamp.Before(start) || job.Timestamp.After(end) {
			continue
		}
		addCounts(&counts, c, job)
	}
	return counts
}

func addCounts(counts *PrintCounts, c *classifier, job printlog.JobRecord) {
	for _, file := range job.Files {
		switch c.classify(file) {
		case index.SourceArchive:
			counts.Archive++
		case index.SourceStudio:
			counts.Studio++
		}
	}
}

// classifier resolves which source a printed file belonged to. Explicit
// sources from recent log rows win; legacy rows fall back to matching the
// poster id or file stem against normalized index keys.
type classifier struct {
	archive map[string]struct{}
	studio  map[string]struct{}
}

func newClassifier(idx *index.Index) *classifier {
	c := &classifier{
		archive: make(map[string]struct{}),
		studio:  make(map[string]struct{}),
	}
	for folder := range idx.Source(index.SourceArchive) {
		c.archive[textutil.FoldKey(folder)] = struct{}{}
	}
	for folder := range idx.Source(index.SourceStudio) {
		c.studio[textutil.FoldKey(folder)] = struct{}{}
	}
	return c
}

func (c *classifier) classify(file printlog.FileRef) string {
	switch file.Source {
	case index.SourceArchive, index.SourceStudio:
		return file.Source
	}

	candidate := file.PosterID
	if candidate == "" {
		candidate = fileStem(file.Path)
	}
	if candidate == "" {
		return ""
	}

	// Exported filenames prefix the poster name before the first hyphen
	// (Apollo_Program-12x18.tif).
	base, _, _ := strings.Cut(candidate, "-")
	key := textutil.FoldKey(base)
	if key == "" {
		return ""
	}
	if _, ok := c.archive[key]; ok {
		return index.SourceArchive
	}
	if _, ok := c.studio[key]; ok {
		return index.SourceStudio
	}
	return ""
}

func fileStem(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	base := path[strings.LastIndexByte(path, '/')+1:]
	return strings.TrimSuffix(base, filepath.Ext(base))
}
