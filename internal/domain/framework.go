package domain

import "fmt"

// FrameworkDefinition is one entry of the static framework catalogue.
// Deep frameworks have a dedicated visualization contract and richer
// generation support.
type FrameworkDefinition struct {
	ID      string      `json:"id" yaml:"id" validate:"required"`
	Name    string      `json:"name" yaml:"name" validate:"required"`
	Weights ThemeVector `json:"weights" yaml:"weights"`
	Deep    bool        `json:"deep" yaml:"deep"`
}

// Validate checks identity fields and weight bounds.
func (f FrameworkDefinition) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidFramework, f.ID, err)
	}
	return nil
}

// RankedFrameworkFit is a framework's position in a brief-specific ranking.
type RankedFrameworkFit struct {
	Rank        int     `json:"rank"`
	FrameworkID string  `json:"framework_id"`
	Name        string  `json:"name"`
	DeepSupport bool    `json:"deep_support"`
	Score       float64 `json:"score"`
}

// Brief is the decision brief a ranking is computed for. Only the textual
// content matters to theme inference; the full brief schema is owned
// elsewhere.
type Brief struct {
	ID      string   `json:"id"`
	Title   string   `json:"title" validate:"required"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate checks that the brief carries a title.
func (b Brief) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBrief, err)
	}
	return nil
}
