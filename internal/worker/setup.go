package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/activity"
	"github.com/ahrav/go-stratagem/internal/frameworks"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	"github.com/ahrav/go-stratagem/internal/llm/observability"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
	"github.com/ahrav/go-stratagem/internal/visualization"
)

// Components is the wired structured-generation stack shared by the worker
// and the CLI commands.
type Components struct {
	Local     *providers.LocalProvider
	Hosted    *providers.HostedProvider
	Router    *providers.Router
	Ranker    *frameworks.Ranker
	Validator *visualization.Validator

	logger *zap.Logger
}

// Build creates both provider adapters, the router, the framework ranker and
// the visualization validator from cfg. metrics may be nil. A missing hosted
// API key is not an error; the hosted provider then reports unhealthy.
func Build(ctx context.Context, cfg *configuration.Config, logger *zap.Logger, metrics *observability.Metrics) (*Components, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []providers.Option{
		providers.WithLogger(logger),
		providers.WithMetrics(metrics),
		providers.WithTracer(observability.Tracer()),
	}
	if cfg.Observability.RedactOutputs {
		opts = append(opts, providers.WithRedactedOutputs())
	}

	local := providers.NewLocalProvider(cfg.Local, opts...)
	hosted, err := providers.NewHostedProvider(ctx, cfg.Hosted, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hosted provider: %w", err)
	}
	router := providers.NewRouter(local, hosted, opts...)

	var inferrer frameworks.ThemeInferrer
	if cfg.Ranking.ThemeInference == configuration.InferenceModel {
		pref, err := providers.ParsePreference(cfg.Routing.DefaultPreference)
		if err != nil {
			return nil, fmt.Errorf("failed to configure theme inference: %w", err)
		}
		inferrer = frameworks.NewModelInferrer(router, pref, logger)
	}

	return &Components{
		Local:  local,
		Hosted: hosted,
		Router: router,
		Ranker: frameworks.NewRanker(inferrer, logger),
		Validator: visualization.NewValidator(nil,
			visualization.WithLogger(logger),
			visualization.WithMetrics(metrics),
		),
		logger: logger,
	}, nil
}

// Activities returns the Temporal activities backed by the components.
func (c *Components) Activities() *activity.Activities {
	return activity.NewActivities(c.Router, c.Ranker, c.Validator, c.logger)
}
