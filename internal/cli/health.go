package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-stratagem/internal/llm/providers"
)

type healthStatus struct {
	Kind    providers.Kind `json:"kind"`
	Name    string         `json:"name"`
	Model   string         `json:"model"`
	Healthy bool           `json:"healthy"`
}

func healthCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe both providers concurrently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			adapters := []providers.Provider{a.comps.Local, a.comps.Hosted}
			statuses := make([]healthStatus, len(adapters))

			// An interrupted probe fails the command instead of reporting the
			// provider as unavailable, and cancels the sibling probe.
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, p := range adapters {
				g.Go(func() error {
					healthy := p.IsHealthy(ctx)
					if err := ctx.Err(); err != nil {
						return fmt.Errorf("health probe of %s interrupted: %w", p.Name(), err)
					}
					statuses[i] = healthStatus{
						Kind:    p.Kind(),
						Name:    p.Name(),
						Model:   p.Model(),
						Healthy: healthy,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), statuses)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tPROVIDER\tMODEL\tSTATUS")
			for _, s := range statuses {
				status := "unavailable"
				if s.Healthy {
					status = "healthy"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Kind, s.Name, s.Model, status)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}
