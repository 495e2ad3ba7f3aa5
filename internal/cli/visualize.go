package cli

import (
	"github.com/spf13/cobra"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/frameworks"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
	"github.com/ahrav/go-stratagem/internal/visualization"
)

func visualizeCmd(a *app) *cobra.Command {
	var (
		frameworkID string
		brief       domain.Brief
		preference  string
	)
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Generate and validate one framework visualization without Temporal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pref, err := providers.ParsePreference(orDefault(preference, a.cfg.Routing.DefaultPreference))
			if err != nil {
				return err
			}
			if err := brief.Validate(); err != nil {
				return err
			}
			req, err := visualization.GenerationRequest(frameworkID, brief)
			if err != nil {
				return err
			}

			out, p, err := a.comps.Router.GenerateJSON(cmd.Context(), pref, req)
			if err != nil {
				return writeFailure(cmd.ErrOrStderr(), err)
			}
			res, err := a.comps.Validator.ValidateJSON(frameworkID, out)
			if err != nil {
				return err
			}

			analysis := domain.FrameworkAnalysis{
				Fit:      domain.RankedFrameworkFit{FrameworkID: frameworkID, DeepSupport: true},
				Provider: p.Name(),
				Model:    p.Model(),
				Spec:     out,
				Result:   &res,
			}
			if def, ok := frameworks.Lookup(frameworkID); ok {
				analysis.Fit.Name = def.Name
			}
			if err := writeJSON(cmd.OutOrStdout(), analysis); err != nil {
				return err
			}
			if !res.OK {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&frameworkID, "framework", "", "Canonical framework id, e.g. swot_analysis")
	cmd.Flags().StringVar(&brief.Title, "title", "", "Brief title")
	cmd.Flags().StringVar(&brief.Summary, "summary", "", "Brief summary")
	cmd.Flags().StringVar(&preference, "preference", "", "Provider preference: local, hosted or auto")
	_ = cmd.MarkFlagRequired("framework")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
