package domain

// CanonicalSchemaVersion is the only visualization schema version accepted
// for canonical framework kinds.
const CanonicalSchemaVersion = 2

// VisualizationSpec is a model-produced chart description.
// Data holds the chart-kind-specific payload.
type VisualizationSpec struct {
	ChartType     string         `json:"chartType"`
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	XLabel        string         `json:"xLabel,omitempty"`
	YLabel        string         `json:"yLabel,omitempty"`
	SchemaVersion int            `json:"schemaVersion"`
	Data          map[string]any `json:"data"`
}

// RubricCriterion is one quality check applied to a visualization payload.
type RubricCriterion struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Issue  string `json:"issue,omitempty"`
}

// RubricReport is the external quality assessment of a visualization payload.
type RubricReport struct {
	Criteria  []RubricCriterion `json:"criteria"`
	Score     float64           `json:"score"`
	Threshold float64           `json:"threshold"`
	Passed    bool              `json:"passed"`
}

// NewRubricReport derives Score as the passing fraction of criteria and
// Passed as Score >= threshold. An empty criteria list scores 1.
func NewRubricReport(criteria []RubricCriterion, threshold float64) RubricReport {
	score := 1.0
	if len(criteria) > 0 {
		passed := 0
		for _, c := range criteria {
			if c.Passed {
				passed++
			}
		}
		score = float64(passed) / float64(len(criteria))
	}
	return RubricReport{
		Criteria:  criteria,
		Score:     score,
		Threshold: threshold,
		Passed:    score >= threshold,
	}
}

// ValidationResult is the outcome of validating a VisualizationSpec.
// Rubric is set only when the payload passed structural validation.
type ValidationResult struct {
	OK        bool          `json:"ok"`
	Canonical bool          `json:"canonical"`
	Issues    []string      `json:"issues"`
	Rubric    *RubricReport `json:"rubric,omitempty"`
}
