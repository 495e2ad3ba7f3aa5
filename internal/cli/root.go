// Package cli implements the stratagem command line: provider health checks,
// one-off structured generation, framework ranking, visualization validation
// and the Temporal worker.
package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	"github.com/ahrav/go-stratagem/internal/llm/observability"
	"github.com/ahrav/go-stratagem/internal/worker"
)

// Execute runs the root command.
func Execute() error {
	return NewRoot().Execute()
}

// app carries state shared by every subcommand. It is populated by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg      *configuration.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
	comps    *worker.Components
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "stratagem",
		Short:         "Resilient structured generation for decision briefs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override observability.log_level")

	root.AddCommand(
		healthCmd(a),
		generateCmd(a),
		rankCmd(a),
		validateCmd(a),
		visualizeCmd(a),
		analyzeCmd(a),
		workerCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := configuration.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Observability.LogLevel = a.logLevel
	}
	a.cfg = cfg

	a.logger, err = observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		a.metrics = observability.NewMetrics(a.registry)
	}

	a.comps, err = worker.Build(cmd.Context(), cfg, a.logger, a.metrics)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}
	return nil
}
