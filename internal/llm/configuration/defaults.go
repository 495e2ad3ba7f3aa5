package configuration

import (
	"time"
)

// Hosted provider defaults.
const (
	DefaultHostedModel     = "gemini-2.5-flash"
	DefaultHostedAPIKeyEnv = "GEMINI_API_KEY"
	DefaultHostedMinWait   = 40 * time.Second
	DefaultHostedMaxWait   = 90 * time.Second
	DefaultHostedPerToken  = 20 * time.Millisecond
)

// Local provider defaults.
const (
	DefaultLocalEndpoint      = "http://localhost:11434"
	DefaultLocalModel         = "llama3.1"
	DefaultLocalHealthTimeout = 3500 * time.Millisecond
	DefaultLocalMinWait       = 30 * time.Second
	DefaultLocalMaxWait       = 90 * time.Second
	DefaultLocalPerToken      = 25 * time.Millisecond
)

// Generation defaults shared by both providers.
const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.2
	RetryTemperature   = 0.0
)

// Process defaults.
const (
	DefaultPreference   = "auto"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultMetricsAddr  = ":9090"
	DefaultTemporalHost = "localhost:7233"
	DefaultNamespace    = "default"
	DefaultTaskQueue    = "stratagem"
	DefaultEnvPrefix    = "STRATAGEM"
	DefaultDotEnvFile   = ".env"
	OutputSnippetLimit  = 800 // Characters of raw output kept in failure details
	LogSnippetLimit     = 200 // Characters of raw output written to debug logs
)

// DefaultConfig returns a configuration that works against a local Ollama
// install and, once an API key is present, the hosted Gemini API.
func DefaultConfig() *Config {
	return &Config{
		Hosted: ProviderConfig{
			Model:            DefaultHostedModel,
			APIKeyEnv:        DefaultHostedAPIKeyEnv,
			NativeSchema:     true,
			DefaultMaxTokens: DefaultMaxTokens,
			Timeout: TimeoutWindow{
				Min:      DefaultHostedMinWait,
				Max:      DefaultHostedMaxWait,
				PerToken: DefaultHostedPerToken,
			},
		},
		Local: ProviderConfig{
			Endpoint:         DefaultLocalEndpoint,
			Model:            DefaultLocalModel,
			HealthTimeout:    DefaultLocalHealthTimeout,
			DefaultMaxTokens: DefaultMaxTokens,
			Timeout: TimeoutWindow{
				Min:      DefaultLocalMinWait,
				Max:      DefaultLocalMaxWait,
				PerToken: DefaultLocalPerToken,
			},
		},
		Routing: RoutingConfig{DefaultPreference: DefaultPreference},
		Ranking: RankingConfig{ThemeInference: InferenceKeyword},
		Observability: ObservabilityConfig{
			LogLevel:    DefaultLogLevel,
			LogFormat:   DefaultLogFormat,
			MetricsAddr: DefaultMetricsAddr,
		},
		Temporal: TemporalConfig{
			HostPort:  DefaultTemporalHost,
			Namespace: DefaultNamespace,
			TaskQueue: DefaultTaskQueue,
		},
	}
}
