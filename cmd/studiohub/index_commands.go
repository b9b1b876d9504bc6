package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studiohub/internal/index"
	"studiohub/internal/lifecycle"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and rebuild the poster index",
	}

	indexCmd.AddCommand(newIndexRebuildCommand(ctx))
	indexCmd.AddCommand(newIndexStatusCommand(ctx))
	indexCmd.AddCommand(newIndexLogCommand(ctx))

	return indexCmd
}

func newIndexRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rescan both poster roots and rewrite the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mgr := lifecycle.NewManager(cfg, index.NewStore(cfg.PosterIndexPath()), nil, nil)
			result, err := mgr.Rebuild(index.TriggerManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d archive and %d studio posters in %s\n",
				result.Archive, result.Studio, result.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func newIndexStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show poster counts from the cached index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			idx, err := ctx.loadIndex()
			if err != nil {
				return err
			}
			archive, studio := idx.Counts()

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"cache_version": idx.CacheVersion,
					"generated_at":  idx.GeneratedAt,
					"archive":       archive,
					"studio":        studio,
					"path":          cfg.PosterIndexPath(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Archive posters: %d\n", archive)
			fmt.Fprintf(out, "Studio posters: %d\n", studio)
			if generated := strings.TrimSpace(idx.GeneratedAt); generated != "" {
				fmt.Fprintf(out, "Generated: %s\n", generated)
			}
			fmt.Fprintf(out, "Cache: %s\n", cfg.PosterIndexPath())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newIndexLogCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent index rebuild activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			records, err := index.NewAuditLog(cfg.IndexLogPath(), nil).Tail(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No index activity recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.Timestamp,
					rec.Source,
					fmt.Sprintf("%d", rec.PatentsCount),
					fmt.Sprintf("%d", rec.StudioCount),
					fmt.Sprintf("%dms", rec.DurationMS),
					rec.Status,
				})
			}
			table := renderTable(
				[]string{"Time", "Trigger", "Archive", "Studio", "Duration", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records to show")
	return cmd
}
