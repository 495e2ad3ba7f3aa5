package cli

import (
	"github.com/spf13/cobra"
)

func validateCmd(a *app) *cobra.Command {
	var frameworkID string
	cmd := &cobra.Command{
		Use:   "validate <spec.json|->",
		Short: "Validate a visualization payload against its framework contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res, err := a.comps.Validator.ValidateJSON(frameworkID, raw)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.OK {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&frameworkID, "framework", "", "Framework id, e.g. swot_analysis")
	_ = cmd.MarkFlagRequired("framework")
	return cmd
}
