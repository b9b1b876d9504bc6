package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"studiohub/internal/printlog"
	"studiohub/internal/queue"
	"studiohub/internal/report"
)

// lowPaperPercent flags the roll as low on the status screen.
const lowPaperPercent = 15

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the studio dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			idx, err := ctx.loadIndex()
			if err != nil {
				return err
			}
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			jobs, err := printlog.NewLog(cfg.PrintLogPath()).Load()
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *queue.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				summary := report.BuildSummary(idx, paper.State(), jobs, time.Now())
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				lines := make([]string, 0, 24)
				lines = append(lines, renderSectionHeader("Hub", colorize)...)
				lines = append(lines, hubProcessLine(cfg.LockFilePath(), colorize))

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Poster Index", colorize)...)
				lines = append(lines, completenessLine("Archive posters", summary.Archive, colorize))
				lines = append(lines, completenessLine("Studio posters", summary.Studio, colorize))
				if generated := strings.TrimSpace(idx.GeneratedAt); generated != "" {
					lines = append(lines, renderStatusLine("Generated", statusInfo, generated, colorize))
				}

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Print Queue", colorize)...)
				lines = append(lines, queueStatusLines(stats, colorize)...)

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Paper", colorize)...)
				lines = append(lines, paperStatusLines(summary.Paper, colorize)...)

				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Print History", colorize)...)
				lines = append(lines, renderStatusLine("Last 30 days", statusInfo,
					fmt.Sprintf("%d sheets (%d archive, %d studio)",
						summary.Last30Days.Total(), summary.Last30Days.Archive, summary.Last30Days.Studio), colorize))
				lines = append(lines, renderStatusLine("This month", statusInfo,
					fmt.Sprintf("%d sheets (%+d vs last month)",
						summary.Month.Current.Total(), summary.Month.DeltaTotal()), colorize))
				if summary.LastPrintAt.IsZero() {
					lines = append(lines, renderStatusLine("Last print", statusInfo, "never", colorize))
				} else {
					lines = append(lines, renderStatusLine("Last print", statusInfo, formatDisplayTime(summary.LastPrintAt), colorize))
				}

				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			})
		},
	}
}

// hubProcessLine probes the hub lock without disturbing a running serve
// loop: winning the lock means nobody holds it.
func hubProcessLine(lockPath string, colorize bool) string {
	lock := flock.New(lockPath)
	held, err := lock.TryLock()
	if err == nil && held {
		_ = lock.Unlock()
	}
	if err == nil && !held {
		return renderStatusLine("Process", statusOK, "running", colorize)
	}
	return renderStatusLine("Process", statusInfo, "not running (start with 'studiohub serve')", colorize)
}

func completenessLine(label string, c report.Completeness, colorize bool) string {
	if c.Posters == 0 {
		return renderStatusLine(label, statusWarn, "none indexed (run 'studiohub index rebuild')", colorize)
	}
	kind := statusInfo
	if c.Percent() == 100 {
		kind = statusOK
	}
	return renderStatusLine(label, kind, fmt.Sprintf("%d indexed, %d%% complete", c.Posters, c.Percent()), colorize)
}

func queueStatusLines(stats map[queue.Status]int, colorize bool) []string {
	total := 0
	for _, count := range stats {
		total += count
	}
	if total == 0 {
		return []string{renderStatusLine("Items", statusOK, "queue is empty", colorize)}
	}

	lines := make([]string, 0, len(stats))
	for _, status := range queue.AllStatuses() {
		count, ok := stats[status]
		if !ok || count == 0 {
			continue
		}
		kind := statusInfo
		switch status {
		case queue.StatusFailed:
			kind = statusError
		case queue.StatusPrinted:
			kind = statusOK
		}
		lines = append(lines, renderStatusLine(formatStatusLabel(string(status)), kind, fmt.Sprintf("%d items", count), colorize))
	}
	return lines
}

func paperStatusLines(p report.PaperSummary, colorize bool) []string {
	if !p.Tracked {
		return []string{renderStatusLine("Roll", statusWarn, "not tracked (run 'studiohub paper replace')", colorize)}
	}

	name := p.Name
	if strings.TrimSpace(name) == "" {
		name = "unnamed roll"
	}
	kind := statusOK
	if p.Percent < lowPaperPercent {
		kind = statusWarn
	}
	lines := []string{renderStatusLine("Roll", kind,
		fmt.Sprintf("%s, %d ft of %d ft left (%d%%)", name, p.RemainingFt, p.TotalFt, p.Percent), colorize)}
	if !p.ReplacedAt.IsZero() {
		lines = append(lines, renderStatusLine("Replaced", statusInfo, formatDisplayTime(p.ReplacedAt), colorize))
	}
	return lines
}
