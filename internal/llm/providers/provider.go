// Package providers implements the structured-generation contract over two
// interchangeable language-model backends (a locally hosted Ollama server and
// the hosted Gemini API) and the router that selects between them.
package providers

import (
	"context"
	"encoding/json"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// Kind tags a provider as locally hosted or hosted by a commercial service.
type Kind string

// Provider kinds.
const (
	KindLocal  Kind = "local"
	KindHosted Kind = "hosted"
)

// Canonical provider names used in logs, metrics and error details.
const (
	NameOllama = "ollama"
	NameGemini = "gemini"
)

// Provider produces schema-valid JSON from a prompt.
//
// Implementations own the full single-retry protocol: one primary attempt,
// at most one strict retry, and typed failures from the llm/errors package.
// They hold no per-call state and are safe for concurrent use.
type Provider interface {
	// Kind reports whether the provider is local or hosted.
	Kind() Kind

	// Name returns the stable provider name.
	Name() string

	// Model returns the configured model identifier.
	Model() string

	// IsHealthy performs a fresh, bounded availability check. It never
	// returns an error; any failure reads as unhealthy.
	IsHealthy(ctx context.Context) bool

	// GenerateJSON returns canonical JSON that validates against req.Schema,
	// or an *errors.Error describing why it could not.
	GenerateJSON(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error)
}
