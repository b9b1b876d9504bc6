package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"studiohub/internal/printing"
	"studiohub/internal/printlog"
)

func newPrintCommand(ctx *commandContext) *cobra.Command {
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Send queued sheets and manage print history",
	}

	printCmd.AddCommand(newPrintSendCommand(ctx))
	printCmd.AddCommand(newPrintRequeueCommand(ctx))
	printCmd.AddCommand(newPrintLogCommand(ctx))
	printCmd.AddCommand(newPrintReprintCommand(ctx))
	printCmd.AddCommand(newPrintFailCommand(ctx))

	return printCmd
}

func newPrintSendCommand(ctx *commandContext) *cobra.Command {
	var asReprint bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Write job tickets for every queued sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *printing.Manager) error {
				out := cmd.OutOrStdout()
				result, err := mgr.Send(cmd.Context(), asReprint)
				if err != nil {
					if errors.Is(err, printing.ErrQueueEmpty) {
						fmt.Fprintln(out, "Queue is empty")
						return nil
					}
					return err
				}

				sheets := 0
				for _, job := range result.Jobs {
					sheets += len(job.Sheets)
				}
				fmt.Fprintf(out, "Sent %d jobs (%d sheets)\n", len(result.Jobs), sheets)
				for _, ticket := range result.Tickets {
					fmt.Fprintf(out, "  ticket %s\n", ticket)
				}
				for _, rec := range result.Records {
					fmt.Fprintf(out, "  logged job %s ($%.2f)\n", rec.Timestamp, rec.PrintCostUSD)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asReprint, "reprint", false, "Log the batch as reprints")
	return cmd
}

func newPrintRequeueCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "requeue",
		Short: "Return the last printed batch to the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *printing.Manager) error {
				count, err := mgr.RequeueLastBatch(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d printed items\n", count)
				return nil
			})
		},
	}
}

func newPrintLogCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent print history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			jobs, err := printlog.NewLog(cfg.PrintLogPath()).Load()
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Print history is empty")
				return nil
			}
			if limit > 0 && len(jobs) > limit {
				jobs = jobs[:limit]
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					job.JobID,
					job.Mode,
					job.Size,
					fmt.Sprintf("%d", len(job.Files)),
					fmt.Sprintf("$%.2f", job.CostUSD),
					printHistoryOutcome(job),
				})
			}
			table := renderTable(
				[]string{"Job", "Mode", "Size", "Sheets", "Cost", "Outcome"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum jobs to show (0 for all)")
	return cmd
}

func printHistoryOutcome(job printlog.JobRecord) string {
	switch {
	case job.Failed && job.Reprinted:
		return "Failed, reprinted"
	case job.Failed:
		outcome := "Failed"
		if reason := strings.TrimSpace(job.FailReason); reason != "" {
			outcome += ": " + reason
		}
		return outcome
	default:
		return "Printed"
	}
}

func newPrintReprintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reprint <jobID>",
		Short: "Send a past job to the printer again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(mgr *printing.Manager) error {
				rec, err := mgr.SendReprint(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reprint sent as job %s ($%.2f)\n", rec.Timestamp, rec.PrintCostUSD)
				return nil
			})
		},
	}
}

func newPrintFailCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "fail <jobID> <actualInches>",
		Short: "Record a botched print and credit unused paper",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actualIn, err := parseFloatArg(args[1], "printed length")
			if err != nil {
				return err
			}
			return ctx.withManager(func(mgr *printing.Manager) error {
				jobID := strings.TrimSpace(args[0])
				if err := mgr.MarkPrintFailed(jobID, actualIn, reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded failed print for job %s\n", jobID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "What went wrong")
	return cmd
}
