// Package configuration defines the settings consumed by providers, the
// router, observability and the Temporal worker, together with their
// defaults and a layered loader.
package configuration

import (
	"errors"
	"fmt"
	"time"
)

// Configuration validation errors.
var (
	ErrInvalidTimeoutWindow = errors.New("invalid timeout window")
	ErrMissingModel         = errors.New("model is required")
	ErrMissingEndpoint      = errors.New("endpoint is required")
	ErrInvalidPreference    = errors.New("invalid routing preference")
	ErrInvalidInference     = errors.New("invalid theme inference mode")
)

// Config holds the complete configuration for the structured-generation core
// and the processes that host it.
type Config struct {
	Hosted        ProviderConfig      `mapstructure:"hosted" json:"hosted"`
	Local         ProviderConfig      `mapstructure:"local" json:"local"`
	Routing       RoutingConfig       `mapstructure:"routing" json:"routing"`
	Ranking       RankingConfig       `mapstructure:"ranking" json:"ranking"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
	Temporal      TemporalConfig      `mapstructure:"temporal" json:"temporal"`
}

// ProviderConfig holds the endpoint, credentials, model and timing settings
// for one provider adapter.
type ProviderConfig struct {
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	Model     string `mapstructure:"model" json:"model"`
	APIKey    string `mapstructure:"api_key" json:"-"` // Sensitive, not serialized
	APIKeyEnv string `mapstructure:"api_key_env" json:"api_key_env"`

	// NativeSchema enables provider-side schema enforcement. Only the hosted
	// provider supports it; when disabled its output goes through recovery.
	NativeSchema bool `mapstructure:"native_schema" json:"native_schema"`

	HealthTimeout    time.Duration `mapstructure:"health_timeout" json:"health_timeout"`
	DefaultMaxTokens int           `mapstructure:"default_max_tokens" json:"default_max_tokens"`
	Timeout          TimeoutWindow `mapstructure:"timeout" json:"timeout"`
}

// TimeoutWindow scales a call's timeout with its token budget:
// MaxTokens × PerToken, clamped to [Min, Max].
type TimeoutWindow struct {
	Min      time.Duration `mapstructure:"min" json:"min"`
	Max      time.Duration `mapstructure:"max" json:"max"`
	PerToken time.Duration `mapstructure:"per_token" json:"per_token"`
}

// For returns the timeout for a call budgeted at maxTokens.
func (w TimeoutWindow) For(maxTokens int) time.Duration {
	d := time.Duration(maxTokens) * w.PerToken
	if d < w.Min {
		return w.Min
	}
	if w.Max > 0 && d > w.Max {
		return w.Max
	}
	return d
}

// Validate checks that the window is usable.
func (w TimeoutWindow) Validate() error {
	if w.Min <= 0 || w.Max <= 0 || w.PerToken < 0 {
		return fmt.Errorf("%w: min, max must be positive and per_token non-negative", ErrInvalidTimeoutWindow)
	}
	if w.Min > w.Max {
		return fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidTimeoutWindow, w.Min, w.Max)
	}
	return nil
}

// RoutingConfig controls provider selection when callers do not specify a preference.
type RoutingConfig struct {
	DefaultPreference string `mapstructure:"default_preference" json:"default_preference"`
}

// Theme inference modes for framework ranking.
const (
	InferenceKeyword = "keyword"
	InferenceModel   = "model"
)

// RankingConfig controls how brief themes are inferred before ranking.
// The model mode asks a provider for the theme vector; keyword mode is
// deterministic and offline.
type RankingConfig struct {
	ThemeInference string `mapstructure:"theme_inference" json:"theme_inference"`
}

// ObservabilityConfig controls logging and metrics exposure.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level" json:"log_level"`
	LogFormat      string `mapstructure:"log_format" json:"log_format"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled" json:"metrics_enabled"`
	MetricsAddr    string `mapstructure:"metrics_addr" json:"metrics_addr"`

	// RedactOutputs suppresses raw-output snippets in debug logs.
	RedactOutputs bool `mapstructure:"redact_outputs" json:"redact_outputs"`
}

// TemporalConfig holds the Temporal frontend address and worker task queue.
type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port" json:"host_port"`
	Namespace string `mapstructure:"namespace" json:"namespace"`
	TaskQueue string `mapstructure:"task_queue" json:"task_queue"`
}

// Validate checks cross-field constraints that defaults cannot guarantee.
func (c *Config) Validate() error {
	for name, p := range map[string]ProviderConfig{"hosted": c.Hosted, "local": c.Local} {
		if p.Model == "" {
			return fmt.Errorf("%s: %w", name, ErrMissingModel)
		}
		if err := p.Timeout.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Local.Endpoint == "" {
		return fmt.Errorf("local: %w", ErrMissingEndpoint)
	}
	switch c.Routing.DefaultPreference {
	case "local", "hosted", "auto":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPreference, c.Routing.DefaultPreference)
	}
	switch c.Ranking.ThemeInference {
	case InferenceKeyword, InferenceModel:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidInference, c.Ranking.ThemeInference)
	}
	return nil
}
