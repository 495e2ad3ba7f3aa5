// Package activity provides the Temporal activities behind brief analysis:
// structured generation through the provider router, framework ranking and
// visualization validation. Activities are plain methods and can be invoked
// directly outside a worker.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/frameworks"
	"github.com/ahrav/go-stratagem/internal/llm/providers"
	"github.com/ahrav/go-stratagem/internal/visualization"
)

// Generator runs one routed structured-generation call.
type Generator interface {
	GenerateJSON(ctx context.Context, pref providers.Preference, req domain.GenerationRequest) (json.RawMessage, providers.Provider, error)
}

// Ranker orders frameworks by fit to a brief.
type Ranker interface {
	RankFrameworkFitsForBrief(ctx context.Context, brief domain.Brief, defs []domain.FrameworkDefinition) ([]domain.RankedFrameworkFit, error)
}

// Activities groups the activity implementations and their dependencies.
type Activities struct {
	generator Generator
	ranker    Ranker
	validator *visualization.Validator
	catalogue func() ([]domain.FrameworkDefinition, error)
	logger    *zap.Logger
}

// NewActivities wires the activities. A nil ranker ranks with keyword theme
// inference; a nil validator uses the heuristic rubric scorer.
func NewActivities(gen Generator, ranker Ranker, validator *visualization.Validator, logger *zap.Logger) *Activities {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ranker == nil {
		ranker = frameworks.NewRanker(nil, logger)
	}
	if validator == nil {
		validator = visualization.NewValidator(nil, visualization.WithLogger(logger))
	}
	return &Activities{
		generator: gen,
		ranker:    ranker,
		validator: validator,
		catalogue: frameworks.Catalogue,
		logger:    logger,
	}
}

// GenerateStructuredInput is the input of GenerateStructured.
type GenerateStructuredInput struct {
	Preference string                   `json:"preference"`
	Request    domain.GenerationRequest `json:"request"`
}

// GenerateStructuredOutput carries schema-valid JSON and the provider that produced it.
type GenerateStructuredOutput struct {
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Output   json.RawMessage `json:"output"`
}

// GenerateStructured routes one generation request to a healthy provider.
// Failures are returned as application errors typed by failure kind; only
// unavailable providers and timeouts are retryable.
func (a *Activities) GenerateStructured(ctx context.Context, in GenerateStructuredInput) (*GenerateStructuredOutput, error) {
	logger := loggerFor(ctx, a.logger)

	pref, err := providers.ParsePreference(in.Preference)
	if err != nil {
		return nil, nonRetryable(ErrorTypeValidation, fmt.Errorf("%w: %w", ErrActivityValidation, err), "invalid provider preference")
	}
	if err := in.Request.Validate(); err != nil {
		return nil, nonRetryable(ErrorTypeValidation, fmt.Errorf("%w: %w", ErrActivityValidation, err), "invalid generation request")
	}
	if a.generator == nil {
		return nil, nonRetryable(ErrorTypeValidation, ErrActivityValidation, "no generator configured")
	}

	recordHeartbeat(ctx, "generating")
	start := time.Now()
	out, p, err := a.generator.GenerateJSON(ctx, pref, in.Request)
	name := ""
	if p != nil {
		name = p.Name()
	}
	if err != nil {
		logger.Warn("structured generation failed",
			zap.String("preference", string(pref)),
			zap.String("provider", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, applicationError(name, err)
	}

	logger.Info("structured generation succeeded",
		zap.String("provider", name),
		zap.String("model", p.Model()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &GenerateStructuredOutput{Provider: name, Model: p.Model(), Output: out}, nil
}

// RankFrameworksInput is the input of RankFrameworks.
type RankFrameworksInput struct {
	Brief domain.Brief `json:"brief"`
}

// RankFrameworksOutput is the full catalogue ranked for a brief.
type RankFrameworksOutput struct {
	Fits []domain.RankedFrameworkFit `json:"fits"`
}

// RankFrameworks ranks the built-in catalogue against the brief.
func (a *Activities) RankFrameworks(ctx context.Context, in RankFrameworksInput) (*RankFrameworksOutput, error) {
	if err := in.Brief.Validate(); err != nil {
		return nil, nonRetryable(ErrorTypeValidation, fmt.Errorf("%w: %w", ErrActivityValidation, err), "invalid brief")
	}

	defs, err := a.catalogue()
	if err != nil {
		return nil, nonRetryable(ErrorTypeCatalogue, err, "framework catalogue unavailable")
	}

	fits, err := a.ranker.RankFrameworkFitsForBrief(ctx, in.Brief, defs)
	if err != nil {
		return nil, applicationError("", err)
	}

	loggerFor(ctx, a.logger).Info("ranked frameworks for brief",
		zap.String("brief_id", in.Brief.ID),
		zap.Int("frameworks", len(fits)),
	)
	return &RankFrameworksOutput{Fits: fits}, nil
}

// ValidateVisualizationInput is the input of ValidateVisualization.
type ValidateVisualizationInput struct {
	FrameworkID string          `json:"framework_id"`
	Spec        json.RawMessage `json:"spec"`
}

// ValidateVisualization checks a generated payload against its framework's
// contract. Contract violations are reported in the result, not as errors;
// only a payload that is not a JSON object fails the activity.
func (a *Activities) ValidateVisualization(ctx context.Context, in ValidateVisualizationInput) (*domain.ValidationResult, error) {
	if in.FrameworkID == "" {
		return nil, nonRetryable(ErrorTypeValidation, ErrActivityValidation, "framework id is required")
	}

	res, err := a.validator.ValidateJSON(in.FrameworkID, in.Spec)
	if err != nil {
		return nil, nonRetryable(ErrorTypeValidation, fmt.Errorf("%w: %w", ErrActivityValidation, err), "visualization payload is not a JSON object")
	}

	if !res.OK {
		loggerFor(ctx, a.logger).Info("visualization failed validation",
			zap.String("framework_id", in.FrameworkID),
			zap.Int("issues", len(res.Issues)),
		)
	}
	return &res, nil
}
