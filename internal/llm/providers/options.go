package providers

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/llm/observability"
)

// Option configures the ambient dependencies of providers and the router.
type Option func(*options)

type options struct {
	logger        *zap.Logger
	metrics       *observability.Metrics
	tracer        trace.Tracer
	httpClient    *http.Client
	redactOutputs bool
}

func newOptions(opts []Option) options {
	o := options{
		logger:     zap.NewNop(),
		tracer:     observability.Tracer(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the prometheus collectors. The default records nothing.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithHTTPClient sets the client used by the local provider.
// Per-call timeouts are enforced by the protocol, not the client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithRedactedOutputs keeps raw model output out of debug logs.
func WithRedactedOutputs() Option {
	return func(o *options) { o.redactOutputs = true }
}
