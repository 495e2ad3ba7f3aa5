package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans emitted by the generation core.
const TracerName = "github.com/ahrav/go-stratagem/internal/llm"

// Tracer returns the core's tracer from the global provider. Without a
// configured SDK the global provider is a no-op.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
