package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/frameworks"
)

func rankCmd(a *app) *cobra.Command {
	var (
		brief    domain.Brief
		limit    int
		deepOnly bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the framework catalogue against a brief",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs, err := frameworks.Catalogue()
			if err != nil {
				return err
			}
			fits, err := a.comps.Ranker.RankFrameworkFitsForBrief(cmd.Context(), brief, defs)
			if err != nil {
				return err
			}

			shown := make([]domain.RankedFrameworkFit, 0, len(fits))
			for _, f := range fits {
				if deepOnly && !f.DeepSupport {
					continue
				}
				if limit > 0 && len(shown) == limit {
					break
				}
				shown = append(shown, f)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), shown)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tFRAMEWORK\tSCORE\tDEEP")
			for _, f := range shown {
				fmt.Fprintf(tw, "%d\t%s\t%.3f\t%t\n", f.Rank, f.Name, f.Score, f.DeepSupport)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&brief.ID, "id", "", "Brief identifier")
	cmd.Flags().StringVar(&brief.Title, "title", "", "Brief title")
	cmd.Flags().StringVar(&brief.Summary, "summary", "", "Brief summary")
	cmd.Flags().StringSliceVar(&brief.Tags, "tag", nil, "Brief tag (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum frameworks to print; 0 prints all")
	cmd.Flags().BoolVar(&deepOnly, "deep", false, "Only print frameworks with deep support")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ranking as JSON")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
