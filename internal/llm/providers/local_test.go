package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// fakeOllama serves /api/tags and /api/chat, answering chat calls from outputs in order.
type fakeOllama struct {
	models    []string
	outputs   []string
	status    int
	delay     time.Duration
	chatCalls atomic.Int32
	requests  chan ollamaChatRequest
}

func (f *fakeOllama) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		models := make([]map[string]string, 0, len(f.models))
		for _, m := range f.models {
			models = append(models, map[string]string{"name": m})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.chatCalls.Add(1))

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if f.requests != nil {
			f.requests <- req
		}

		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return
			}
		}
		if f.status != 0 {
			http.Error(w, `{"error":"denied"}`, f.status)
			return
		}

		out := f.outputs[min(n, len(f.outputs))-1]
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   req.Model,
			Message: ollamaMessage{Role: "assistant", Content: out},
			Done:    true,
		})
	})
	return mux
}

func newLocalForTest(t *testing.T, srv *httptest.Server, window configuration.TimeoutWindow) *LocalProvider {
	t.Helper()
	return NewLocalProvider(configuration.ProviderConfig{
		Endpoint:      srv.URL + "/",
		Model:         "llama3.1",
		HealthTimeout: time.Second,
		Timeout:       window,
	}, WithLogger(zaptest.NewLogger(t)), WithHTTPClient(srv.Client()))
}

func TestLocalProviderIdentity(t *testing.T) {
	p := NewLocalProvider(configuration.ProviderConfig{})
	assert.Equal(t, KindLocal, p.Kind())
	assert.Equal(t, NameOllama, p.Name())
	assert.Equal(t, configuration.DefaultLocalModel, p.Model())
	assert.Equal(t, configuration.DefaultLocalEndpoint, p.endpoint)
	assert.Equal(t, configuration.DefaultLocalHealthTimeout, p.healthTimeout)
}

func TestLocalProviderIsHealthy(t *testing.T) {
	t.Run("models_listed", func(t *testing.T) {
		fake := &fakeOllama{models: []string{"llama3.1:latest"}}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		assert.True(t, newLocalForTest(t, srv, shortWindow(time.Second)).IsHealthy(context.Background()))
	})

	t.Run("no_models", func(t *testing.T) {
		fake := &fakeOllama{}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		assert.False(t, newLocalForTest(t, srv, shortWindow(time.Second)).IsHealthy(context.Background()))
	})

	t.Run("server_down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		p := newLocalForTest(t, srv, shortWindow(time.Second))
		srv.Close()

		assert.False(t, p.IsHealthy(context.Background()))
	})

	t.Run("error_status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		assert.False(t, newLocalForTest(t, srv, shortWindow(time.Second)).IsHealthy(context.Background()))
	})

	t.Run("slow_probe_is_bounded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		p := newLocalForTest(t, srv, shortWindow(time.Second))
		p.healthTimeout = 50 * time.Millisecond

		start := time.Now()
		assert.False(t, p.IsHealthy(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestLocalProviderGenerateJSON(t *testing.T) {
	t.Run("fenced_output_recovered", func(t *testing.T) {
		fake := &fakeOllama{
			outputs:  []string{"Here you go:\n```json\n{'title': 'Expand', 'score': 0.7,}\n```"},
			requests: make(chan ollamaChatRequest, 2),
		}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		out, err := newLocalForTest(t, srv, shortWindow(time.Second)).GenerateJSON(context.Background(), testRequest())
		require.NoError(t, err)
		assert.JSONEq(t, validOutput, string(out))
		assert.EqualValues(t, 1, fake.chatCalls.Load())

		req := <-fake.requests
		assert.Equal(t, "llama3.1", req.Model)
		assert.Equal(t, "json", req.Format)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.InDelta(t, configuration.DefaultTemperature, req.Options.Temperature, 1e-9)
		assert.Equal(t, configuration.DefaultMaxTokens, req.Options.NumPredict)
	})

	t.Run("unparseable_then_valid_invokes_twice", func(t *testing.T) {
		fake := &fakeOllama{outputs: []string{"Sorry, I cannot produce that.", validOutput}}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		out, err := newLocalForTest(t, srv, shortWindow(time.Second)).GenerateJSON(context.Background(), testRequest())
		require.NoError(t, err)
		assert.JSONEq(t, validOutput, string(out))
		assert.EqualValues(t, 2, fake.chatCalls.Load())
	})

	t.Run("timeout_invokes_once", func(t *testing.T) {
		fake := &fakeOllama{outputs: []string{validOutput}, delay: 500 * time.Millisecond}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		_, err := newLocalForTest(t, srv, shortWindow(50*time.Millisecond)).GenerateJSON(context.Background(), testRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, llmerrors.ErrModelTimeout)
		assert.EqualValues(t, 1, fake.chatCalls.Load())
	})

	t.Run("unauthorized_fails_without_retry", func(t *testing.T) {
		fake := &fakeOllama{outputs: []string{validOutput}, status: http.StatusUnauthorized}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		_, err := newLocalForTest(t, srv, shortWindow(time.Second)).GenerateJSON(context.Background(), testRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, llmerrors.ErrProviderUnavailable)
		assert.EqualValues(t, 1, fake.chatCalls.Load())
	})

	t.Run("server_error_consumes_retry", func(t *testing.T) {
		fake := &fakeOllama{outputs: []string{validOutput}, status: http.StatusInternalServerError}
		srv := httptest.NewServer(fake.handler(t))
		defer srv.Close()

		_, err := newLocalForTest(t, srv, shortWindow(time.Second)).GenerateJSON(context.Background(), testRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, llmerrors.ErrModelOutputInvalid)
		assert.EqualValues(t, 2, fake.chatCalls.Load())
	})

	t.Run("connection_refused_is_unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		p := newLocalForTest(t, srv, shortWindow(time.Second))
		srv.Close()

		_, err := p.GenerateJSON(context.Background(), testRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, llmerrors.ErrProviderUnavailable)
	})
}
