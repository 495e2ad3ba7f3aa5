package domain

import (
	"fmt"
	"math"
)

// Theme dimension names, in canonical order.
const (
	ThemeRisk              = "risk"
	ThemeUrgency           = "urgency"
	ThemeOpportunity       = "opportunity"
	ThemeUncertainty       = "uncertainty"
	ThemeResources         = "resources"
	ThemeStakeholderImpact = "stakeholder_impact"
)

// ThemeDimensions lists every theme dimension in canonical order.
var ThemeDimensions = []string{
	ThemeRisk,
	ThemeUrgency,
	ThemeOpportunity,
	ThemeUncertainty,
	ThemeResources,
	ThemeStakeholderImpact,
}

// ThemeVector scores a brief, or weights a framework, across the fixed theme
// dimensions. Every component lies in [0, 1].
type ThemeVector struct {
	Risk              float64 `json:"risk" yaml:"risk" validate:"gte=0,lte=1"`
	Urgency           float64 `json:"urgency" yaml:"urgency" validate:"gte=0,lte=1"`
	Opportunity       float64 `json:"opportunity" yaml:"opportunity" validate:"gte=0,lte=1"`
	Uncertainty       float64 `json:"uncertainty" yaml:"uncertainty" validate:"gte=0,lte=1"`
	Resources         float64 `json:"resources" yaml:"resources" validate:"gte=0,lte=1"`
	StakeholderImpact float64 `json:"stakeholder_impact" yaml:"stakeholder_impact" validate:"gte=0,lte=1"`
}

// Values returns the components in ThemeDimensions order.
func (v ThemeVector) Values() []float64 {
	return []float64{v.Risk, v.Urgency, v.Opportunity, v.Uncertainty, v.Resources, v.StakeholderImpact}
}

// Get returns the component for a dimension name and whether the name is known.
func (v ThemeVector) Get(dimension string) (float64, bool) {
	switch dimension {
	case ThemeRisk:
		return v.Risk, true
	case ThemeUrgency:
		return v.Urgency, true
	case ThemeOpportunity:
		return v.Opportunity, true
	case ThemeUncertainty:
		return v.Uncertainty, true
	case ThemeResources:
		return v.Resources, true
	case ThemeStakeholderImpact:
		return v.StakeholderImpact, true
	default:
		return 0, false
	}
}

// Clamp returns a copy with every component forced into [0, 1]; NaN becomes 0.
func (v ThemeVector) Clamp() ThemeVector {
	return ThemeVector{
		Risk:              clampUnit(v.Risk),
		Urgency:           clampUnit(v.Urgency),
		Opportunity:       clampUnit(v.Opportunity),
		Uncertainty:       clampUnit(v.Uncertainty),
		Resources:         clampUnit(v.Resources),
		StakeholderImpact: clampUnit(v.StakeholderImpact),
	}
}

// Validate checks that every component lies in [0, 1].
func (v ThemeVector) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidThemeVector, err)
	}
	return nil
}

func clampUnit(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
