package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"studiohub/internal/index"
	"studiohub/internal/printing"
	"studiohub/internal/queue"
	"studiohub/internal/textutil"
)

// suggestionFloor is the minimum similarity before a misspelled poster
// name earns a "did you mean" hint.
const suggestionFloor = 0.5

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the print queue",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	var sizeFlag string
	var backgroundFlag string
	var sourceFlag string
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "add <poster>",
		Short: "Queue a poster sheet for printing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			idx, err := ctx.loadIndex()
			if err != nil {
				return err
			}

			source := strings.ToLower(strings.TrimSpace(sourceFlag))
			if source != index.SourceArchive && source != index.SourceStudio {
				return fmt.Errorf("invalid source %q (expected %s or %s)", sourceFlag, index.SourceArchive, index.SourceStudio)
			}
			size := strings.TrimSpace(sizeFlag)
			if size == "" {
				size = cfg.Printing.DefaultSize
			}
			if !isPrintSize(size) {
				return fmt.Errorf("invalid size %q (expected one of %s)", size, strings.Join(index.PrintSizes, ", "))
			}

			option, err := resolveQueueOption(idx, source, size, args[0], backgroundFlag, fileFlag)
			if err != nil {
				return err
			}

			display := idx.Source(source)[option.PosterKey].DisplayName
			if strings.TrimSpace(display) == "" {
				display = option.PosterKey
			}

			return ctx.withStore(func(store *queue.Store) error {
				item, err := store.Enqueue(cmd.Context(), queue.Item{
					PosterKey:       option.PosterKey,
					DisplayName:     display,
					Source:          source,
					Size:            size,
					BackgroundKey:   option.BackgroundKey,
					BackgroundLabel: option.BackgroundLabel,
					SheetPath:       option.Path,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %s (%s, %s) as item %d\n", option.Name, size, source, item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&sizeFlag, "size", "", "Sheet size (defaults to printing.default_size)")
	cmd.Flags().StringVar(&backgroundFlag, "background", "", "Background variant for archive posters")
	cmd.Flags().StringVar(&sourceFlag, "source", index.SourceArchive, "Poster source (archive or studio)")
	cmd.Flags().StringVar(&fileFlag, "file", "", "Print file name when a studio poster has several")
	return cmd
}

// resolveQueueOption narrows the printable sheets for one size down to the
// single option named by the poster argument and flags.
func resolveQueueOption(idx *index.Index, source, size, posterArg, backgroundArg, fileArg string) (printing.Option, error) {
	options := printing.AvailableBySize(idx, source)[size]
	posterKey := textutil.FoldKey(posterArg)

	matches := make([]printing.Option, 0, 4)
	for _, opt := range options {
		if textutil.FoldKey(opt.PosterKey) == posterKey {
			matches = append(matches, opt)
		}
	}
	if len(matches) == 0 {
		names := make([]string, 0, len(options))
		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			key := opt.PosterKey
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, strings.TrimSpace(strings.SplitN(opt.Name, " — ", 2)[0]))
		}
		if best, score := textutil.ClosestName(posterArg, names); score >= suggestionFloor {
			return printing.Option{}, fmt.Errorf("no %s print for poster %q in %s (did you mean %q?)", size, posterArg, source, best)
		}
		return printing.Option{}, fmt.Errorf("no %s print for poster %q in %s", size, posterArg, source)
	}

	if backgroundArg = strings.TrimSpace(backgroundArg); backgroundArg != "" {
		// Index background keys keep their legacy CamelCase spelling, so
		// compare normalized forms.
		bgKey := textutil.NormalizeBackgroundName(backgroundArg).Key
		for _, opt := range matches {
			if textutil.NormalizeBackgroundName(opt.BackgroundKey).Key == bgKey {
				return opt, nil
			}
		}
		return printing.Option{}, fmt.Errorf("background %q not available; choose from %s", backgroundArg, joinBackgroundLabels(matches))
	}
	if fileArg = strings.TrimSpace(fileArg); fileArg != "" {
		for _, opt := range matches {
			if strings.EqualFold(filepath.Base(opt.Path), fileArg) {
				return opt, nil
			}
		}
		return printing.Option{}, fmt.Errorf("file %q not found for poster %q", fileArg, posterArg)
	}

	if len(matches) > 1 {
		if matches[0].BackgroundKey != "" {
			return printing.Option{}, fmt.Errorf("poster has several backgrounds; pass --background (%s)", joinBackgroundLabels(matches))
		}
		return printing.Option{}, errors.New("poster has several print files; pass --file to pick one")
	}
	return matches[0], nil
}

func joinBackgroundLabels(options []printing.Option) string {
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.BackgroundLabel != "" {
			labels = append(labels, opt.BackgroundLabel)
		}
	}
	return strings.Join(labels, ", ")
}

func isPrintSize(size string) bool {
	for _, known := range index.PrintSizes {
		if size == known {
			return true
		}
	}
	return false
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := buildQueueStatusRows(stats)
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []queue.Status
			for _, raw := range listStatuses {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("invalid status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(store *queue.Store) error {
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}

				if asJSON {
					views := make([]map[string]any, 0, len(items))
					for _, item := range items {
						view := map[string]any{
							"id":         item.ID,
							"uuid":       item.UUID,
							"poster":     item.PosterKey,
							"label":      item.Label(),
							"source":     item.Source,
							"size":       item.Size,
							"sheet_path": item.SheetPath,
							"status":     string(item.Status),
							"created_at": item.CreatedAt,
						}
						if item.BackgroundKey != "" {
							view["background"] = item.BackgroundKey
						}
						if item.ErrorMessage != "" {
							view["error"] = item.ErrorMessage
						}
						if item.PrintedAt != nil {
							view["printed_at"] = *item.PrintedAt
						}
						views = append(views, view)
					}
					return writeJSON(cmd, map[string]any{"items": views})
				}

				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Poster", "Size", "Background", "Source", "Status", "Created"},
					buildQueueListRows(items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemID>",
		Short: "Remove a queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Item %d not found\n", id)
				}
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [itemID...]",
		Short: "Requeue failed items",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseItemID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			return ctx.withStore(func(store *queue.Store) error {
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					updated, err := store.RetryFailed(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Retried %d failed items\n", updated)
					return nil
				}

				for _, id := range ids {
					item, err := store.GetByID(cmd.Context(), id)
					if err != nil {
						return err
					}
					if item == nil {
						fmt.Fprintf(out, "Item %d not found\n", id)
						continue
					}
					if item.Status != queue.StatusFailed {
						fmt.Fprintf(out, "Item %d is not in failed state\n", id)
						continue
					}
					updated, err := store.RetryFailed(cmd.Context(), id)
					if err != nil {
						return err
					}
					if updated > 0 {
						fmt.Fprintf(out, "Item %d requeued\n", id)
					} else {
						fmt.Fprintf(out, "Item %d is not in failed state\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearPrinted bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				out := cmd.OutOrStdout()
				if clearPrinted {
					removed, err := store.ClearPrinted(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d printed items\n", removed)
					return nil
				}
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d queue items\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearPrinted, "printed", false, "Remove only printed items")
	return cmd
}
