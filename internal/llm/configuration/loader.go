package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds a Config from, in increasing precedence: DefaultConfig, the
// optional YAML file at path, a .env file in the working directory, and
// STRATAGEM_-prefixed environment variables (STRATAGEM_LOCAL_ENDPOINT,
// STRATAGEM_HOSTED_TIMEOUT_MAX, ...). The hosted API key falls back to the
// variable named by hosted.api_key_env.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DefaultDotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultDotEnvFile, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	resolveAPIKey(&cfg.Hosted)
	resolveAPIKey(&cfg.Local)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	for prefix, p := range map[string]ProviderConfig{"hosted": d.Hosted, "local": d.Local} {
		v.SetDefault(prefix+".endpoint", p.Endpoint)
		v.SetDefault(prefix+".model", p.Model)
		v.SetDefault(prefix+".api_key", p.APIKey)
		v.SetDefault(prefix+".api_key_env", p.APIKeyEnv)
		v.SetDefault(prefix+".native_schema", p.NativeSchema)
		v.SetDefault(prefix+".health_timeout", p.HealthTimeout)
		v.SetDefault(prefix+".default_max_tokens", p.DefaultMaxTokens)
		v.SetDefault(prefix+".timeout.min", p.Timeout.Min)
		v.SetDefault(prefix+".timeout.max", p.Timeout.Max)
		v.SetDefault(prefix+".timeout.per_token", p.Timeout.PerToken)
	}

	v.SetDefault("routing.default_preference", d.Routing.DefaultPreference)
	v.SetDefault("ranking.theme_inference", d.Ranking.ThemeInference)

	v.SetDefault("observability.log_level", d.Observability.LogLevel)
	v.SetDefault("observability.log_format", d.Observability.LogFormat)
	v.SetDefault("observability.metrics_enabled", d.Observability.MetricsEnabled)
	v.SetDefault("observability.metrics_addr", d.Observability.MetricsAddr)
	v.SetDefault("observability.redact_outputs", d.Observability.RedactOutputs)

	v.SetDefault("temporal.host_port", d.Temporal.HostPort)
	v.SetDefault("temporal.namespace", d.Temporal.Namespace)
	v.SetDefault("temporal.task_queue", d.Temporal.TaskQueue)
}

func resolveAPIKey(p *ProviderConfig) {
	if p.APIKey == "" && p.APIKeyEnv != "" {
		p.APIKey = os.Getenv(p.APIKeyEnv)
	}
}
