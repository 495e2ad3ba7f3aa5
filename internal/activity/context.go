package activity

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.uber.org/zap"
)

// executionInfo identifies the workflow execution an activity runs under.
// Outside a Temporal activity context every field is empty.
type executionInfo struct {
	WorkflowID string
	RunID      string
	ActivityID string
	Attempt    int32
}

// getExecutionInfo extracts execution metadata from ctx. activity.GetInfo
// panics outside an activity context, which is how activities run when called
// directly from the CLI or from unit tests.
func getExecutionInfo(ctx context.Context) (info executionInfo, ok bool) {
	defer func() {
		if recover() != nil {
			info, ok = executionInfo{}, false
		}
	}()

	ai := activity.GetInfo(ctx)
	return executionInfo{
		WorkflowID: ai.WorkflowExecution.ID,
		RunID:      ai.WorkflowExecution.RunID,
		ActivityID: ai.ActivityID,
		Attempt:    ai.Attempt,
	}, true
}

// fields returns zap fields for the execution, or nil outside an activity.
func (e executionInfo) fields() []zap.Field {
	if e.WorkflowID == "" {
		return nil
	}
	return []zap.Field{
		zap.String("workflow_id", e.WorkflowID),
		zap.String("run_id", e.RunID),
		zap.String("activity_id", e.ActivityID),
		zap.Int32("attempt", e.Attempt),
	}
}

// loggerFor returns base enriched with the execution fields found in ctx.
func loggerFor(ctx context.Context, base *zap.Logger) *zap.Logger {
	info, ok := getExecutionInfo(ctx)
	if !ok {
		return base
	}
	return base.With(info.fields()...)
}

// recordHeartbeat records an activity heartbeat. It is a no-op outside an
// activity context.
func recordHeartbeat(ctx context.Context, details ...any) {
	defer func() {
		if recover() != nil {
			return
		}
	}()
	activity.RecordHeartbeat(ctx, details...)
}
