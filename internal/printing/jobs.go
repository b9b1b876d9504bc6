package printing

import (
	"studiohub/internal/printlog"
	"studiohub/internal/queue"
)

// 12x18 is the only size that prints two-up; a pair rides one 18x24 sheet.
const (
	pairSize       = "12x18"
	twoUpSheetSize = "18x24"
)

// Job is one printer pass: a single sheet, or two 12x18 sheets side by side.
type Job struct {
	Sheets []*queue.Item
}

// Mode returns the print-log mode for the pass.
func (j Job) Mode() string {
	if len(j.Sheets) == 2 {
		return printlog.Mode2Up
	}
	return printlog.ModeSingle
}

// SheetSize returns the physical sheet the pass feeds: pairs ride an 18x24
// sheet, singles use their own size.
func (j Job) SheetSize() string {
	if len(j.Sheets) == 2 {
		return twoUpSheetSize
	}
	if len(j.Sheets) == 1 {
		return j.Sheets[0].Size
	}
	return ""
}

// Paths returns the sheet paths in print order.
func (j Job) Paths() []string {
	paths := make([]string, 0, len(j.Sheets))
	for _, item := range j.Sheets {
		paths = append(paths, item.SheetPath)
	}
	return paths
}

// BuildJobs groups queue items into printer passes. Consecutive 12x18
// sheets pair two-up with an odd one printing alone; every other size is
// its own pass, after the pairs. With pairing disabled everything prints
// single in queue order.
func BuildJobs(items []*queue.Item, allowPairing bool) []Job {
	var jobs []Job

	if !allowPairing {
		for _, item := range items {
			jobs = append(jobs, Job{Sheets: []*queue.Item{item}})
		}
		return jobs
	}

	var twelves, singles []*queue.Item
	for _, item := range items {
		if item.Size == pairSize {
			twelves = append(twelves, item)
		} else {
			singles = append(singles, item)
		}
	}

	for i := 0; i < len(twelves); i += 2 {
		if i+1 < len(twelves) {
			jobs = append(jobs, Job{Sheets: []*queue.Item{twelves[i], twelves[i+1]}})
		} else {
			jobs = append(jobs, Job{Sheets: []*queue.Item{twelves[i]}})
		}
	}
	for _, item := range singles {
		jobs = append(jobs, Job{Sheets: []*queue.Item{item}})
	}
	return jobs
}
