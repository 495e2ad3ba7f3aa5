// Package worker wires the structured-generation stack into a Temporal worker.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-stratagem/internal/activity"
	"github.com/ahrav/go-stratagem/internal/workflow"
)

// RegisterAll registers the brief analysis workflow and its activities with
// the Temporal worker. It must be called once, before the worker starts.
func RegisterAll(w sdkworker.Worker, acts *activity.Activities) {
	w.RegisterWorkflow(workflow.BriefAnalysisWorkflow)

	w.RegisterActivity(acts.GenerateStructured)
	w.RegisterActivity(acts.RankFrameworks)
	w.RegisterActivity(acts.ValidateVisualization)
}
