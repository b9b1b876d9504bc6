package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPaperCommand(ctx *commandContext) *cobra.Command {
	paperCmd := &cobra.Command{
		Use:   "paper",
		Short: "Track the shared paper roll",
	}

	paperCmd.AddCommand(newPaperStatusCommand(ctx))
	paperCmd.AddCommand(newPaperReplaceCommand(ctx))
	paperCmd.AddCommand(newPaperCommitCommand(ctx))
	paperCmd.AddCommand(newPaperFailCommand(ctx))
	paperCmd.AddCommand(newPaperHistoryCommand(ctx))

	return paperCmd
}

func newPaperStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show remaining footage on the roll",
		RunE: func(cmd *cobra.Command, args []string) error {
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			state := paper.State()
			out := cmd.OutOrStdout()

			if !state.Tracked {
				fmt.Fprintln(out, "Paper roll is not tracked; run 'studiohub paper replace <name> <feet>'")
				return nil
			}

			name := state.PaperName
			if strings.TrimSpace(name) == "" {
				name = "(unnamed roll)"
			}
			percent := 0
			if state.TotalFt > 0 {
				percent = int(state.RemainingFt / state.TotalFt * 100)
			}
			fmt.Fprintf(out, "Paper: %s\n", name)
			fmt.Fprintf(out, "Remaining: %.1f ft of %.1f ft (%d%%)\n", state.RemainingFt, state.TotalFt, percent)
			if !state.LastReplaced.IsZero() {
				fmt.Fprintf(out, "Replaced: %s\n", formatDisplayTime(state.LastReplaced))
			}
			return nil
		},
	}
}

func newPaperReplaceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "replace <name> <feet>",
		Short: "Record a fresh roll on the printer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feet, err := parseFloatArg(args[1], "roll length")
			if err != nil {
				return err
			}
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if err := paper.ReplacePaper(name, feet); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Paper replaced: %s (%.1f ft)\n", name, feet)
			return nil
		},
	}
}

func newPaperCommitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "commit <jobID> <lengthInches>",
		Short: "Deduct printed footage from the roll",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lengthIn, err := parseFloatArg(args[1], "printed length")
			if err != nil {
				return err
			}
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			jobID := strings.TrimSpace(args[0])
			if err := paper.CommitPrint(jobID, lengthIn); err != nil {
				return err
			}
			state := paper.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Committed %.1f in against job %s (%.1f ft left)\n", lengthIn, jobID, state.RemainingFt)
			return nil
		},
	}
}

func newPaperFailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fail <jobID> <plannedInches> <actualInches>",
		Short: "Credit unused footage from a failed print",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			plannedIn, err := parseFloatArg(args[1], "planned length")
			if err != nil {
				return err
			}
			actualIn, err := parseFloatArg(args[2], "printed length")
			if err != nil {
				return err
			}
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			jobID := strings.TrimSpace(args[0])
			if err := paper.FailPrint(jobID, plannedIn, actualIn); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credited %.1f in back to the roll for job %s\n", plannedIn-actualIn, jobID)
			return nil
		},
	}
}

func newPaperHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List roll replacements",
		RunE: func(cmd *cobra.Command, args []string) error {
			paper, err := ctx.openPaper()
			if err != nil {
				return err
			}
			changes := paper.PaperChanges()
			if len(changes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No paper changes recorded")
				return nil
			}

			// Newest first, like the print history.
			rows := make([][]string, 0, len(changes))
			for i := len(changes) - 1; i >= 0; i-- {
				change := changes[i]
				rows = append(rows, []string{
					formatDisplayTime(change.Timestamp),
					change.PaperName,
					fmt.Sprintf("%.1f ft", change.TotalFt),
				})
				if limit > 0 && len(rows) == limit {
					break
				}
			}
			table := renderTable(
				[]string{"Replaced", "Paper", "Roll"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum changes to show (0 for all)")
	return cmd
}
