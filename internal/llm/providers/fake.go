package providers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ahrav/go-stratagem/internal/domain"
)

// Fake is an in-memory Provider for tests and offline runs. Health and
// generation results are scripted; every call is recorded.
type Fake struct {
	ProviderKind Kind
	ProviderName string
	ModelName    string

	mu       sync.Mutex
	healthy  bool
	respond  func(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error)
	requests []domain.GenerationRequest
	probes   int
}

var _ Provider = (*Fake)(nil)

// NewFake returns a healthy fake that answers every call with out.
func NewFake(kind Kind, name string, out json.RawMessage) *Fake {
	return &Fake{
		ProviderKind: kind,
		ProviderName: name,
		ModelName:    "fake-" + name,
		healthy:      true,
		respond: func(context.Context, domain.GenerationRequest) (json.RawMessage, error) {
			return out, nil
		},
	}
}

// SetHealthy changes the result of subsequent health probes.
func (f *Fake) SetHealthy(healthy bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthy = healthy
}

// RespondWith replaces the generation behavior.
func (f *Fake) RespondWith(fn func(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = fn
}

// Kind returns the scripted kind.
func (f *Fake) Kind() Kind { return f.ProviderKind }

// Name returns the scripted name.
func (f *Fake) Name() string { return f.ProviderName }

// Model returns the scripted model.
func (f *Fake) Model() string { return f.ModelName }

// IsHealthy returns the scripted health and counts the probe.
func (f *Fake) IsHealthy(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.healthy
}

// GenerateJSON records req and returns the scripted result.
func (f *Fake) GenerateJSON(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()

	if respond == nil {
		return json.RawMessage(`{}`), nil
	}
	return respond(ctx, req)
}

// Probes returns how many health probes were made.
func (f *Fake) Probes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

// Requests returns a copy of the recorded generation requests.
func (f *Fake) Requests() []domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GenerationRequest(nil), f.requests...)
}
