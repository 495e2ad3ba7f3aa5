package domain

import (
	"encoding/json"
	"fmt"
)

// Bounds on how many deep frameworks one analysis visualizes.
const (
	DefaultAnalysisFrameworks = 3
	MaxAnalysisFrameworks     = 12
)

// AnalysisRequest asks for a brief to be ranked against the framework
// catalogue and for its best-fitting deep frameworks to be visualized.
type AnalysisRequest struct {
	Brief Brief `json:"brief"`

	// Preference selects the provider: local, hosted or auto.
	Preference string `json:"preference" validate:"required,oneof=local hosted auto"`

	// MaxFrameworks caps the number of visualized frameworks; zero selects
	// DefaultAnalysisFrameworks.
	MaxFrameworks int `json:"max_frameworks,omitempty" validate:"gte=0,lte=12"`
}

// Validate checks the request and its brief.
func (r AnalysisRequest) Validate() error {
	if err := r.Brief.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return nil
}

// FrameworkLimit returns MaxFrameworks, or the default when unset.
func (r AnalysisRequest) FrameworkLimit() int {
	if r.MaxFrameworks <= 0 {
		return DefaultAnalysisFrameworks
	}
	return r.MaxFrameworks
}

// FrameworkAnalysis is the generated and validated visualization of one framework.
// Error is set instead of Spec and Result when generation failed.
type FrameworkAnalysis struct {
	Fit      RankedFrameworkFit `json:"fit"`
	Provider string             `json:"provider,omitempty"`
	Model    string             `json:"model,omitempty"`
	Spec     json.RawMessage    `json:"spec,omitempty"`
	Result   *ValidationResult  `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// AnalysisReport is the outcome of one brief analysis.
type AnalysisReport struct {
	BriefID  string               `json:"brief_id"`
	Fits     []RankedFrameworkFit `json:"fits"`
	Analyses []FrameworkAnalysis  `json:"analyses"`
}
