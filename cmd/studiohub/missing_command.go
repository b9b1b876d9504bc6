package main

import (
	"fmt"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"studiohub/internal/index"
	"studiohub/internal/report"
)

func newMissingCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "missing",
		Short: "Report poster files that have not been produced yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := ctx.loadIndex()
			if err != nil {
				return err
			}

			source := strings.ToLower(strings.TrimSpace(sourceFlag))
			var rep *report.MissingReport
			switch source {
			case "":
				rep = report.BuildMissing(idx)
			case index.SourceArchive:
				rep = &report.MissingReport{Archive: report.MissingArchive(idx)}
			case index.SourceStudio:
				rep = &report.MissingReport{Studio: report.MissingStudio(idx)}
			default:
				return fmt.Errorf("invalid source %q (expected %s or %s)", sourceFlag, index.SourceArchive, index.SourceStudio)
			}

			out := cmd.OutOrStdout()
			if rep.Empty() {
				fmt.Fprintln(out, "No missing files")
				return nil
			}

			tree := gotree.New("Missing files")
			if len(rep.Archive) > 0 {
				branch := tree.Add(fmt.Sprintf("Archive (%d posters)", len(rep.Archive)))
				for _, poster := range rep.Archive {
					addMissingPoster(branch, poster)
				}
			}
			if len(rep.Studio) > 0 {
				branch := tree.Add(fmt.Sprintf("Studio (%d posters)", len(rep.Studio)))
				for _, poster := range rep.Studio {
					addMissingPoster(branch, poster)
				}
			}
			fmt.Fprint(out, tree.Print())
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Limit to one source (archive or studio)")
	return cmd
}

func addMissingPoster(branch gotree.Tree, poster report.MissingPoster) {
	node := branch.Add(poster.DisplayName)
	if poster.Missing.Master {
		node.Add("master")
	}
	if poster.Missing.Web {
		node.Add("web")
	}
	if len(poster.Missing.Sizes) > 0 {
		node.Add("sizes: " + strings.Join(poster.Missing.Sizes, ", "))
	}
	for _, bg := range poster.Missing.Backgrounds {
		node.Add(fmt.Sprintf("%s background (%s)", bg.Label, strings.Join(bg.Sizes, ", ")))
	}
}
