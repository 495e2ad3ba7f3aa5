package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/worker"
	"github.com/ahrav/go-stratagem/internal/workflow"
)

func analyzeCmd(a *app) *cobra.Command {
	var req domain.AnalysisRequest
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Start a brief analysis workflow and wait for its report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Preference = orDefault(req.Preference, a.cfg.Routing.DefaultPreference)
			if req.Brief.ID == "" {
				req.Brief.ID = uuid.NewString()
			}
			if err := req.Validate(); err != nil {
				return err
			}

			c, err := client.Dial(client.Options{
				HostPort:  a.cfg.Temporal.HostPort,
				Namespace: a.cfg.Temporal.Namespace,
				Logger:    worker.NewTemporalLogger(a.logger),
			})
			if err != nil {
				return fmt.Errorf("failed to connect to temporal at %s: %w", a.cfg.Temporal.HostPort, err)
			}
			defer c.Close()

			run, err := c.ExecuteWorkflow(cmd.Context(), client.StartWorkflowOptions{
				ID:        "brief-analysis-" + req.Brief.ID,
				TaskQueue: a.cfg.Temporal.TaskQueue,
			}, workflow.BriefAnalysisWorkflow, req)
			if err != nil {
				return fmt.Errorf("failed to start analysis: %w", err)
			}
			a.logger.Info("analysis started",
				zap.String("workflow_id", run.GetID()),
				zap.String("run_id", run.GetRunID()),
			)

			var report domain.AnalysisReport
			if err := run.Get(cmd.Context(), &report); err != nil {
				return fmt.Errorf("analysis %s failed: %w", run.GetID(), err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&req.Brief.ID, "id", "", "Brief identifier; generated when empty")
	cmd.Flags().StringVar(&req.Brief.Title, "title", "", "Brief title")
	cmd.Flags().StringVar(&req.Brief.Summary, "summary", "", "Brief summary")
	cmd.Flags().StringSliceVar(&req.Brief.Tags, "tag", nil, "Brief tag (repeatable)")
	cmd.Flags().StringVar(&req.Preference, "preference", "", "Provider preference: local, hosted or auto")
	cmd.Flags().IntVar(&req.MaxFrameworks, "frameworks", domain.DefaultAnalysisFrameworks, "Deep frameworks to visualize")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
