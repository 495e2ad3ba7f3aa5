// Package visualization validates model-generated chart payloads against the
// structural contracts of the canonical framework kinds and a quality rubric.
package visualization

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/observability"
)

// nonCanonicalLabel is the metrics label used for every framework without a contract.
const nonCanonicalLabel = "non_canonical"

// Validator checks visualization payloads. It holds no per-call state and is
// safe for concurrent use.
type Validator struct {
	scorer  Scorer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMetrics records one validation outcome per call.
func WithMetrics(m *observability.Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// NewValidator creates a validator backed by scorer. A nil scorer selects
// NewHeuristicScorer.
func NewValidator(scorer Scorer, opts ...Option) *Validator {
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	v := &Validator{scorer: scorer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks spec against frameworkID's contract.
//
// Frameworks without a contract are accepted as non-canonical. For canonical
// frameworks every mismatch is collected: the declared chart type, the schema
// version, the title and the framework-specific data shape. Only a payload
// with no structural issue is passed to the rubric scorer; its failing
// criteria and a score under threshold are appended as issues and the report
// is attached to the result.
func (v *Validator) Validate(frameworkID string, spec domain.VisualizationSpec) domain.ValidationResult {
	ct, ok := contracts[frameworkID]
	if !ok {
		v.metrics.ObserveValidation(nonCanonicalLabel, true)
		return domain.ValidationResult{OK: true, Canonical: false, Issues: []string{}}
	}

	c := &checker{}
	if spec.ChartType != ct.chartType {
		c.addf("chartType: expected %q for %s, received %q", ct.chartType, frameworkID, spec.ChartType)
	}
	if spec.SchemaVersion != domain.CanonicalSchemaVersion {
		c.addf("schemaVersion: expected %d, received %d", domain.CanonicalSchemaVersion, spec.SchemaVersion)
	}
	if strings.TrimSpace(spec.Title) == "" {
		c.addf("title must be a non-empty string")
	}
	if spec.Data == nil {
		c.addf("%s is required", dataPath)
	} else {
		ct.check(c, spec.Data)
	}

	result := domain.ValidationResult{Canonical: true}
	if len(c.issues) == 0 {
		report := v.scorer.Score(frameworkID, spec.Data)
		for _, cr := range report.Criteria {
			if !cr.Passed && cr.Issue != "" {
				c.addf("rubric %s: %s", cr.Name, cr.Issue)
			}
		}
		if report.Score < report.Threshold {
			c.addf("rubric score %.3f is below threshold %.3f", report.Score, report.Threshold)
		}
		result.Rubric = &report
	}

	result.Issues = append([]string{}, c.issues...)
	result.OK = len(result.Issues) == 0

	v.metrics.ObserveValidation(frameworkID, result.OK)
	if !result.OK {
		v.logger.Debug("visualization rejected",
			zap.String("framework_id", frameworkID),
			zap.Int("issues", len(result.Issues)),
			zap.String("first_issue", result.Issues[0]),
		)
	}
	return result
}

// ValidateJSON decodes a raw payload and validates it. Numbers are kept
// exact with json.Number. Decoding errors are returned, not reported as issues.
func (v *Validator) ValidateJSON(frameworkID string, raw []byte) (domain.ValidationResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var spec domain.VisualizationSpec
	if err := dec.Decode(&spec); err != nil {
		return domain.ValidationResult{}, fmt.Errorf("failed to decode visualization: %w", err)
	}
	return v.Validate(frameworkID, spec), nil
}
