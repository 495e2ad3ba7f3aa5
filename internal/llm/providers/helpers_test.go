package providers

import (
	"context"
	"sync"
	"time"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
)

// scriptedTransport returns canned outputs in order and records every call.
type scriptedTransport struct {
	mu      sync.Mutex
	outputs []scriptedOutput
	calls   []call
}

type scriptedOutput struct {
	text  string
	err   error
	block <-chan struct{} // when set, the call waits for close or ctx cancellation
}

func (s *scriptedTransport) complete(ctx context.Context, c call) (string, error) {
	s.mu.Lock()
	idx := len(s.calls)
	s.calls = append(s.calls, c)
	var out scriptedOutput
	if idx < len(s.outputs) {
		out = s.outputs[idx]
	} else if len(s.outputs) > 0 {
		out = s.outputs[len(s.outputs)-1]
	}
	s.mu.Unlock()

	if out.block != nil {
		select {
		case <-out.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return out.text, out.err
}

func (s *scriptedTransport) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

// objectSchema requires {"title": string, "score": number in [0,1]}.
func objectSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"title", "score"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
	}
}

func testRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		SystemPrompt: "You are an analyst.",
		UserPrompt:   "Assess the brief.",
		Schema:       objectSchema(),
	}
}

func shortWindow(d time.Duration) configuration.TimeoutWindow {
	return configuration.TimeoutWindow{Min: d, Max: d, PerToken: 0}
}
