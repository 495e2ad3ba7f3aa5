package workflow

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-stratagem/internal/activity"
	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/visualization"
)

// Activity timing. StartToClose covers a primary attempt and a strict retry
// at the widest provider timeout window.
const (
	generateStartToClose = 4 * time.Minute
	defaultStartToClose  = 30 * time.Second
)

// BriefAnalysisWorkflow ranks the catalogue for the request's brief and
// visualizes its top deep frameworks. Generation runs concurrently across
// frameworks. A framework whose generation fails is reported with its error;
// only an invalid request or a failed ranking fails the workflow.
func BriefAnalysisWorkflow(ctx workflow.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "brief_analysis.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid analysis request",
			activity.ErrorTypeValidation,
			err,
		)
	}

	logger := workflow.GetLogger(ctx)
	var acts *activity.Activities

	rankCtx := workflow.WithActivityOptions(ctx, activityOptions(defaultStartToClose))
	var ranked activity.RankFrameworksOutput
	if err := workflow.ExecuteActivity(rankCtx, acts.RankFrameworks, activity.RankFrameworksInput{Brief: req.Brief}).
		Get(rankCtx, &ranked); err != nil {
		return nil, err
	}

	selected := selectFrameworks(ranked.Fits, req.FrameworkLimit())
	logger.Info("analyzing frameworks", "brief_id", req.Brief.ID, "frameworks", len(selected))

	analyses := make([]domain.FrameworkAnalysis, len(selected))
	futures := make([]workflow.Future, len(selected))
	genCtx := workflow.WithActivityOptions(ctx, activityOptions(generateStartToClose))
	for i, fit := range selected {
		genReq, err := visualization.GenerationRequest(fit.FrameworkID, req.Brief)
		if err != nil {
			analyses[i] = domain.FrameworkAnalysis{Fit: fit, Error: err.Error()}
			continue
		}
		futures[i] = workflow.ExecuteActivity(genCtx, acts.GenerateStructured, activity.GenerateStructuredInput{
			Preference: req.Preference,
			Request:    genReq,
		})
	}

	valCtx := workflow.WithActivityOptions(ctx, activityOptions(defaultStartToClose))
	for i, fit := range selected {
		if futures[i] != nil {
			analyses[i] = analyzeFramework(valCtx, futures[i], fit)
		}
	}

	report := &domain.AnalysisReport{BriefID: req.Brief.ID, Fits: ranked.Fits, Analyses: analyses}
	return report, nil
}

// analyzeFramework waits for one generation and validates its output.
func analyzeFramework(ctx workflow.Context, generated workflow.Future, fit domain.RankedFrameworkFit) domain.FrameworkAnalysis {
	var acts *activity.Activities
	analysis := domain.FrameworkAnalysis{Fit: fit}

	var out activity.GenerateStructuredOutput
	if err := generated.Get(ctx, &out); err != nil {
		analysis.Error = failureMessage(err)
		return analysis
	}
	analysis.Provider = out.Provider
	analysis.Model = out.Model
	analysis.Spec = out.Output

	var result domain.ValidationResult
	err := workflow.ExecuteActivity(ctx, acts.ValidateVisualization, activity.ValidateVisualizationInput{
		FrameworkID: fit.FrameworkID,
		Spec:        out.Output,
	}).Get(ctx, &result)
	if err != nil {
		analysis.Error = failureMessage(err)
		return analysis
	}
	analysis.Result = &result
	return analysis
}

// selectFrameworks returns up to limit deep frameworks with a visualization
// contract, keeping rank order.
func selectFrameworks(fits []domain.RankedFrameworkFit, limit int) []domain.RankedFrameworkFit {
	selected := make([]domain.RankedFrameworkFit, 0, limit)
	for _, fit := range fits {
		if len(selected) == limit {
			break
		}
		if !fit.DeepSupport {
			continue
		}
		if _, ok := visualization.ExpectedChartType(fit.FrameworkID); !ok {
			continue
		}
		selected = append(selected, fit)
	}
	return selected
}

// failureMessage renders an activity failure as "<type>: <message>".
func failureMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return fmt.Sprintf("%s: %s", appErr.Type(), appErr.Message())
	}
	return err.Error()
}

func activityOptions(startToClose time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: startToClose,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: activity.NonRetryableErrorTypes,
		},
	}
}
