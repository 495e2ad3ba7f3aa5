package worker

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/llm/configuration"
)

// Run dials the Temporal frontend, registers the workflow and activities on
// the configured task queue and processes tasks until ctx is cancelled.
func Run(ctx context.Context, cfg configuration.TemporalConfig, comps *Components, logger *zap.Logger) error {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
		Logger:    NewTemporalLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to temporal at %s: %w", cfg.HostPort, err)
	}
	defer c.Close()

	w := sdkworker.New(c, cfg.TaskQueue, sdkworker.Options{})
	RegisterAll(w, comps.Activities())

	logger.Info("worker starting",
		zap.String("host_port", cfg.HostPort),
		zap.String("namespace", cfg.Namespace),
		zap.String("task_queue", cfg.TaskQueue),
	)
	if err := w.Run(stopChannel(ctx)); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}
	return nil
}

// stopChannel closes when ctx is done.
func stopChannel(ctx context.Context) <-chan any {
	ch := make(chan any)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}
