package providers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
	"github.com/ahrav/go-stratagem/internal/llm/jsonrepair"
	"github.com/ahrav/go-stratagem/internal/llm/observability"
)

const validOutput = `{"title": "Expand", "score": 0.7}`

func newTestProtocol(t *testing.T, transport *scriptedTransport, window configuration.TimeoutWindow, opts ...Option) *protocol {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return &protocol{
		provider:         NameOllama,
		model:            "test-model",
		window:           window,
		defaultMaxTokens: configuration.DefaultMaxTokens,
		complete:         transport.complete,
		decode:           decodeRecovered,
		opts:             newOptions(opts),
	}
}

func TestProtocolPrimarySuccess(t *testing.T) {
	transport := &scriptedTransport{outputs: []scriptedOutput{{text: "```json\n" + validOutput + "\n```"}}}
	p := newTestProtocol(t, transport, shortWindow(time.Second))

	out, err := p.generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, validOutput, string(out))

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.InDelta(t, configuration.DefaultTemperature, calls[0].Temperature, 1e-9)
	assert.Equal(t, configuration.DefaultMaxTokens, calls[0].MaxTokens)
	assert.Contains(t, calls[0].System, "You are an analyst.")
	assert.Contains(t, calls[0].System, `"required"`)
	assert.Equal(t, "Assess the brief.", calls[0].User)
}

func TestProtocolRetryAccounting(t *testing.T) {
	tests := []struct {
		name          string
		outputs       []scriptedOutput
		wantCalls     int
		wantKind      llmerrors.Kind
		reasonContain string
	}{
		{
			name:          "unparseable_then_valid",
			outputs:       []scriptedOutput{{text: "I think the answer is positive."}, {text: validOutput}},
			wantCalls:     2,
			reasonContain: "no JSON found",
		},
		{
			name:          "schema_mismatch_then_valid",
			outputs:       []scriptedOutput{{text: `{"title": "Expand", "score": 7}`}, {text: validOutput}},
			wantCalls:     2,
			reasonContain: "output does not match schema",
		},
		{
			name:          "server_error_then_valid",
			outputs:       []scriptedOutput{{err: errors.New("ollama returned status 500: runner crashed")}, {text: validOutput}},
			wantCalls:     2,
			reasonContain: "status 500",
		},
		{
			name:          "empty_then_valid",
			outputs:       []scriptedOutput{{text: "   "}, {text: validOutput}},
			wantCalls:     2,
			reasonContain: "empty response",
		},
		{
			name:      "typed_provider_failure",
			outputs:   []scriptedOutput{{err: llmerrors.ProviderUnavailable(NameOllama, "not configured", nil)}},
			wantCalls: 1,
			wantKind:  llmerrors.KindProviderUnavailable,
		},
		{
			name:      "rate_limit_message",
			outputs:   []scriptedOutput{{err: errors.New("429 Too Many Requests")}},
			wantCalls: 1,
			wantKind:  llmerrors.KindProviderUnavailable,
		},
		{
			name:      "auth_message",
			outputs:   []scriptedOutput{{err: errors.New("authentication failed: invalid API key")}},
			wantCalls: 1,
			wantKind:  llmerrors.KindProviderUnavailable,
		},
		{
			name:      "transport_deadline",
			outputs:   []scriptedOutput{{err: context.DeadlineExceeded}},
			wantCalls: 1,
			wantKind:  llmerrors.KindModelTimeout,
		},
		{
			name:      "invalid_twice",
			outputs:   []scriptedOutput{{text: "nope"}, {text: `{"title": 3}`}},
			wantCalls: 2,
			wantKind:  llmerrors.KindModelOutputInvalid,
		},
		{
			name:      "invalid_then_provider_failure",
			outputs:   []scriptedOutput{{text: "nope"}, {err: errors.New("quota exceeded")}},
			wantCalls: 2,
			wantKind:  llmerrors.KindProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &scriptedTransport{outputs: tt.outputs}
			p := newTestProtocol(t, transport, shortWindow(time.Second))

			out, err := p.generate(context.Background(), testRequest())
			calls := transport.Calls()
			assert.Len(t, calls, tt.wantCalls)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Nil(t, out)
				assert.Equal(t, tt.wantKind, llmerrors.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, validOutput, string(out))

			retry := calls[1]
			assert.InDelta(t, configuration.RetryTemperature, retry.Temperature, 1e-9)
			assert.Contains(t, retry.System, "Return ONLY one JSON value")
			assert.Contains(t, retry.User, "Assess the brief.")
			assert.Contains(t, retry.User, tt.reasonContain)
		})
	}
}

func TestProtocolOutputInvalidDetails(t *testing.T) {
	long := strings.Repeat("a", 2000)
	transport := &scriptedTransport{outputs: []scriptedOutput{{text: long}, {text: `{"title": "x"}`}}}
	p := newTestProtocol(t, transport, shortWindow(time.Second))

	_, err := p.generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, llmerrors.ErrModelOutputInvalid)

	var typed *llmerrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, 502, typed.Status)
	assert.Equal(t, NameOllama, typed.Details["provider"])
	assert.Contains(t, typed.Details["first_reason"], "no JSON found")
	assert.Contains(t, typed.Details["reason"], "score")
	assert.Equal(t, `{"title": "x"}`, typed.Details["retry_output"])

	firstOutput, ok := typed.Details["first_output"].(string)
	require.True(t, ok)
	assert.Equal(t, configuration.OutputSnippetLimit+1, len([]rune(firstOutput)))
}

func TestProtocolTimeoutIsNotRetried(t *testing.T) {
	ignore := goleak.IgnoreCurrent()

	release := make(chan struct{})
	transport := &scriptedTransport{outputs: []scriptedOutput{{text: validOutput, block: release}}}
	p := newTestProtocol(t, transport, shortWindow(30*time.Millisecond))

	start := time.Now()
	_, err := p.generate(context.Background(), testRequest())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, llmerrors.ErrModelTimeout)
	assert.Len(t, transport.Calls(), 1)
	assert.Less(t, elapsed, time.Second)

	close(release)
	goleak.VerifyNone(t, ignore)
}

func TestProtocolRetryTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	transport := &scriptedTransport{outputs: []scriptedOutput{{text: "garbage"}, {block: release}}}
	p := newTestProtocol(t, transport, shortWindow(30*time.Millisecond))

	_, err := p.generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, llmerrors.ErrModelTimeout)
	assert.Len(t, transport.Calls(), 2)
}

func TestProtocolCallerContext(t *testing.T) {
	t.Run("cancelled_is_internal", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		transport := &scriptedTransport{outputs: []scriptedOutput{{block: release}}}
		p := newTestProtocol(t, transport, shortWindow(5*time.Second))

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		_, err := p.generate(ctx, testRequest())
		assert.ErrorIs(t, err, llmerrors.ErrInternal)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, transport.Calls(), 1)
	})

	t.Run("deadline_is_timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		transport := &scriptedTransport{outputs: []scriptedOutput{{block: release}}}
		p := newTestProtocol(t, transport, shortWindow(5*time.Second))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := p.generate(ctx, testRequest())
		assert.ErrorIs(t, err, llmerrors.ErrModelTimeout)
		assert.Len(t, transport.Calls(), 1)
	})
}

func TestProtocolRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  domain.GenerationRequest
	}{
		{name: "missing_schema", req: domain.GenerationRequest{UserPrompt: "x"}},
		{name: "uncompilable_schema", req: domain.GenerationRequest{UserPrompt: "x", Schema: map[string]any{"type": 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &scriptedTransport{outputs: []scriptedOutput{{text: validOutput}}}
			p := newTestProtocol(t, transport, shortWindow(time.Second))

			_, err := p.generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, llmerrors.ErrInternal)
			assert.Empty(t, transport.Calls())
		})
	}
}

func TestProtocolHonorsRequestOverrides(t *testing.T) {
	transport := &scriptedTransport{outputs: []scriptedOutput{{text: validOutput}}}
	p := newTestProtocol(t, transport, shortWindow(time.Second))

	temp := 0.9
	req := testRequest()
	req.Temperature = &temp
	req.MaxTokens = 256

	_, err := p.generate(context.Background(), req)
	require.NoError(t, err)

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.InDelta(t, 0.9, calls[0].Temperature, 1e-9)
	assert.Equal(t, 256, calls[0].MaxTokens)
}

func TestProtocolStrictDecodeSkipsRecovery(t *testing.T) {
	transport := &scriptedTransport{outputs: []scriptedOutput{{text: "```json\n" + validOutput + "\n```"}, {text: validOutput}}}
	p := newTestProtocol(t, transport, shortWindow(time.Second))
	p.decode = decodeStrict

	out, err := p.generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.JSONEq(t, validOutput, string(out))
	assert.Len(t, transport.Calls(), 2)
}

func TestDecodeStrict(t *testing.T) {
	_, err := decodeStrict("")
	assert.ErrorIs(t, err, jsonrepair.ErrEmptyResponse)

	_, err = decodeStrict("{'a': 1}")
	assert.Error(t, err)

	v, err := decodeStrict(` {"a": 1} `)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestProtocolMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	transport := &scriptedTransport{outputs: []scriptedOutput{{text: "nope"}, {text: validOutput}}}
	p := newTestProtocol(t, transport, shortWindow(time.Second), WithMetrics(metrics))

	_, err := p.generate(context.Background(), testRequest())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "stratagem_provider_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "stratagem_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
