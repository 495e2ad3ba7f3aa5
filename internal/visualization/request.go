package visualization

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// ErrNonCanonical indicates a framework without a visualization contract.
var ErrNonCanonical = errors.New("framework has no visualization contract")

// visualizationMaxTokens bounds the generated payload.
const visualizationMaxTokens = 3072

const visualizationSystemPrompt = `You are a strategy analyst producing chart data for a decision brief.
Ground every label in the brief. Use specific, distinct labels and spread
normalized scores so the strongest and weakest items are clearly separated.`

// GenerationRequest builds the structured-generation request for a canonical
// framework's visualization. The schema pins the chart type and schema
// version; the data contract is described in the prompt and enforced by
// Validate afterwards.
func GenerationRequest(frameworkID string, brief domain.Brief) (domain.GenerationRequest, error) {
	ct, ok := contracts[frameworkID]
	if !ok {
		return domain.GenerationRequest{}, fmt.Errorf("%w: %s", ErrNonCanonical, frameworkID)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Framework: %s\nChart type: %s\n", frameworkID, ct.chartType)
	fmt.Fprintf(&user, "Brief title: %s\n", brief.Title)
	if brief.Summary != "" {
		fmt.Fprintf(&user, "Brief summary: %s\n", brief.Summary)
	}
	fmt.Fprintf(&user, "The data object must contain: %s", ct.shape)

	return domain.GenerationRequest{
		SystemPrompt: visualizationSystemPrompt,
		UserPrompt:   user.String(),
		Schema:       specSchema(ct.chartType),
		MaxTokens:    visualizationMaxTokens,
	}, nil
}

// specSchema is the JSON Schema of a VisualizationSpec envelope for chartType.
func specSchema(chartType string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"chartType", "title", "schemaVersion", "data"},
		"properties": map[string]any{
			"chartType":     map[string]any{"type": "string", "enum": []any{chartType}},
			"title":         map[string]any{"type": "string", "minLength": 1},
			"subtitle":      map[string]any{"type": "string"},
			"xLabel":        map[string]any{"type": "string"},
			"yLabel":        map[string]any{"type": "string"},
			"schemaVersion": map[string]any{"type": "integer", "enum": []any{domain.CanonicalSchemaVersion}},
			"data":          map[string]any{"type": "object"},
		},
	}
}
