package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
)

type generateResult struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Output   json.RawMessage `json:"output"`
}

func generateCmd(a *app) *cobra.Command {
	var (
		system     string
		prompt     string
		schemaPath string
		preference string
		maxTokens  int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one structured-generation call against a JSON Schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pref, err := providers.ParsePreference(orDefault(preference, a.cfg.Routing.DefaultPreference))
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), schemaPath)
			if err != nil {
				return err
			}
			var schema map[string]any
			if err := json.Unmarshal(raw, &schema); err != nil {
				return fmt.Errorf("schema %s is not a JSON object: %w", schemaPath, err)
			}

			req := domain.GenerationRequest{
				SystemPrompt: system,
				UserPrompt:   prompt,
				Schema:       schema,
				MaxTokens:    maxTokens,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			out, p, err := a.comps.Router.GenerateJSON(cmd.Context(), pref, req)
			if err != nil {
				return writeFailure(cmd.ErrOrStderr(), err)
			}
			return writeJSON(cmd.OutOrStdout(), generateResult{Provider: p.Name(), Model: p.Model(), Output: out})
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "System prompt")
	cmd.Flags().StringVar(&prompt, "prompt", "", "User prompt")
	cmd.Flags().StringVar(&schemaPath, "schema", "", `JSON Schema file, or "-" for stdin`)
	cmd.Flags().StringVar(&preference, "preference", "", "Provider preference: local, hosted or auto")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Output token budget; 0 selects the provider default")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
