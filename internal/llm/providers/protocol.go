package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
	"github.com/ahrav/go-stratagem/internal/llm/jsonrepair"
	"github.com/ahrav/go-stratagem/internal/llm/observability"
)

// call is one transport invocation: fully rendered prompts plus sampling settings.
type call struct {
	System      string
	User        string
	Schema      map[string]any
	Temperature float64
	MaxTokens   int
}

// completeFunc performs one raw transport call and returns the model's text.
type completeFunc func(ctx context.Context, c call) (string, error)

// decodeFunc turns raw model text into a generic JSON value.
type decodeFunc func(raw string) (any, error)

// decodeRecovered runs raw text through the recovery engine.
func decodeRecovered(raw string) (any, error) {
	return jsonrepair.Parse(raw)
}

// decodeStrict parses raw text as-is. Used when the provider enforces the schema natively.
func decodeStrict(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, jsonrepair.ErrEmptyResponse
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// protocol implements the single-retry structured-generation contract shared
// by every adapter. Adapters supply only the transport and the decoder.
type protocol struct {
	provider         string
	model            string
	window           configuration.TimeoutWindow
	defaultMaxTokens int
	complete         completeFunc
	decode           decodeFunc
	opts             options
}

// attemptOutcome is the result of one primary or retry attempt.
// A terminal outcome ends the call immediately with err.
type attemptOutcome struct {
	value    json.RawMessage
	raw      string
	reason   string
	err      error
	terminal bool
}

func (o attemptOutcome) ok() bool { return o.err == nil && o.reason == "" }

// generate runs the primary attempt and, when it fails for a reason other than
// provider unavailability or timeout, exactly one strict retry.
func (p *protocol) generate(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	callID := uuid.NewString()
	ctx, span := p.opts.tracer.Start(ctx, "providers.GenerateJSON", trace.WithAttributes(
		attribute.String("llm.provider", p.provider),
		attribute.String("llm.model", p.model),
		attribute.String("llm.call_id", callID),
	))
	defer span.End()

	logger := p.opts.logger.With(
		zap.String("call_id", callID),
		zap.String("provider", p.provider),
		zap.String("model", p.model),
	)

	out, err := p.run(ctx, logger, req)
	if err != nil {
		kind := llmerrors.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		p.opts.metrics.ObserveGeneration(p.provider, string(kind))
		logger.Warn("structured generation failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	p.opts.metrics.ObserveGeneration(p.provider, observability.OutcomeSuccess)
	return out, nil
}

func (p *protocol) run(ctx context.Context, logger *zap.Logger, req domain.GenerationRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, llmerrors.Internal("invalid generation request", err)
	}
	schema, err := compileSchema(req.Schema)
	if err != nil {
		return nil, llmerrors.Internal("invalid response schema", err)
	}

	maxTokens := req.MaxTokensOr(p.defaultMaxTokens)
	timeout := p.window.For(maxTokens)

	first := p.attempt(ctx, logger, observability.AttemptPrimary, call{
		System:      primarySystemPrompt(req.SystemPrompt, req.Schema),
		User:        req.UserPrompt,
		Schema:      req.Schema,
		Temperature: req.TemperatureOr(configuration.DefaultTemperature),
		MaxTokens:   maxTokens,
	}, timeout, schema)
	if first.terminal {
		return nil, first.err
	}
	if first.ok() {
		return first.value, nil
	}

	logger.Info("primary attempt rejected, retrying with strict instruction", zap.String("reason", first.reason))

	second := p.attempt(ctx, logger, observability.AttemptRetry, call{
		System:      strictSystemPrompt(req.SystemPrompt, req.Schema),
		User:        retryUserPrompt(req.UserPrompt, first.reason),
		Schema:      req.Schema,
		Temperature: configuration.RetryTemperature,
		MaxTokens:   maxTokens,
	}, timeout, schema)
	if second.terminal {
		return nil, second.err
	}
	if second.ok() {
		return second.value, nil
	}

	return nil, llmerrors.ModelOutputInvalid(p.provider, "model output rejected after strict retry", map[string]any{
		"model":        p.model,
		"reason":       second.reason,
		"first_reason": first.reason,
		"first_output": observability.Snippet(first.raw, configuration.OutputSnippetLimit),
		"retry_output": observability.Snippet(second.raw, configuration.OutputSnippetLimit),
	})
}

// attempt performs one transport call and classifies its outcome.
func (p *protocol) attempt(
	ctx context.Context,
	logger *zap.Logger,
	label string,
	c call,
	timeout time.Duration,
	schema *gojsonschema.Schema,
) attemptOutcome {
	start := time.Now()
	raw, err := p.await(ctx, c, timeout)
	elapsed := time.Since(start)

	if err != nil {
		out := p.classifyCallError(ctx, err, timeout)
		p.opts.metrics.ObserveAttempt(p.provider, label, outcomeLabel(out), elapsed)
		logger.Debug("provider call failed",
			zap.String("attempt", label),
			zap.Duration("elapsed", elapsed),
			zap.Bool("terminal", out.terminal),
			zap.Error(err),
		)
		return out
	}

	if !p.opts.redactOutputs {
		logger.Debug("provider call returned",
			zap.String("attempt", label),
			zap.Duration("elapsed", elapsed),
			zap.String("output", observability.Snippet(raw, configuration.LogSnippetLimit)),
		)
	}

	value, reason := p.accept(raw, schema)
	if reason != "" {
		p.opts.metrics.ObserveAttempt(p.provider, label, observability.OutcomeInvalid, elapsed)
		return attemptOutcome{raw: raw, reason: reason}
	}
	p.opts.metrics.ObserveAttempt(p.provider, label, observability.OutcomeSuccess, elapsed)
	return attemptOutcome{raw: raw, value: value}
}

// classifyCallError maps a transport error onto a terminal failure or a
// retry-eligible reason. Cancellation, provider-level rejections and timeouts
// are terminal; anything else consumes the retry.
func (p *protocol) classifyCallError(ctx context.Context, err error, timeout time.Duration) attemptOutcome {
	switch {
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return attemptOutcome{terminal: true, err: llmerrors.Internal("generation cancelled", err)}
	case llmerrors.IsProviderFailure(err):
		return attemptOutcome{terminal: true, err: asTyped(err, func() *llmerrors.Error {
			return llmerrors.ProviderUnavailable(p.provider, "provider rejected the call", err)
		})}
	case llmerrors.IsTimeout(err):
		return attemptOutcome{terminal: true, err: asTyped(err, func() *llmerrors.Error {
			return llmerrors.ModelTimeout(p.provider, fmt.Sprintf("no response within %s", timeout), err)
		})}
	default:
		return attemptOutcome{reason: err.Error()}
	}
}

// asTyped returns err unchanged when it already carries a kind, otherwise build().
func asTyped(err error, build func() *llmerrors.Error) error {
	var typed *llmerrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	return build()
}

// await races the transport call against the timeout window and the caller's
// context. On timeout the call is abandoned, not cancelled: the goroutine
// finishes on its own and its result is discarded by the buffered channel.
func (p *protocol) await(ctx context.Context, c call, timeout time.Duration) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := p.complete(ctx, c)
		done <- result{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.text, r.err
	case <-timer.C:
		return "", llmerrors.ModelTimeout(p.provider, fmt.Sprintf("no response within %s", timeout), nil)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// accept decodes raw output, validates it against the schema and re-encodes it.
// A non-empty reason means the output was rejected.
func (p *protocol) accept(raw string, schema *gojsonschema.Schema) (json.RawMessage, string) {
	value, err := p.decode(raw)
	if err != nil {
		return nil, err.Error()
	}
	if err := validateAgainst(schema, value); err != nil {
		return nil, err.Error()
	}
	out, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Sprintf("failed to encode output: %v", err)
	}
	return out, ""
}

func outcomeLabel(o attemptOutcome) string {
	if !o.terminal {
		return observability.OutcomeInvalid
	}
	switch llmerrors.KindOf(o.err) {
	case llmerrors.KindProviderUnavailable:
		return observability.OutcomeUnavailable
	case llmerrors.KindModelTimeout:
		return observability.OutcomeTimeout
	default:
		return observability.OutcomeCancelled
	}
}
