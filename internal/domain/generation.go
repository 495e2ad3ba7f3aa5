package domain

import (
	"fmt"
)

// GenerationRequest describes one structured-generation call.
// Schema is a JSON Schema document in its decoded generic form; the provider
// output must validate against it.
type GenerationRequest struct {
	SystemPrompt string         `json:"system_prompt"`
	UserPrompt   string         `json:"user_prompt" validate:"required"`
	Schema       map[string]any `json:"schema" validate:"required,min=1"`

	// MaxTokens bounds the output budget; zero selects the provider default.
	MaxTokens int `json:"max_tokens,omitempty" validate:"gte=0"`

	// Temperature overrides the primary attempt's sampling temperature.
	// The strict retry always runs at zero.
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
}

// Validate checks the request's field constraints.
func (r *GenerationRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// TemperatureOr returns the request temperature, or fallback when unset.
func (r *GenerationRequest) TemperatureOr(fallback float64) float64 {
	if r.Temperature == nil {
		return fallback
	}
	return *r.Temperature
}

// MaxTokensOr returns the request token budget, or fallback when unset.
func (r *GenerationRequest) MaxTokensOr(fallback int) int {
	if r.MaxTokens <= 0 {
		return fallback
	}
	return r.MaxTokens
}
