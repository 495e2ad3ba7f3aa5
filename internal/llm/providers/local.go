package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
)

// LocalProvider generates structured output with a locally hosted Ollama
// server. Its raw text always goes through the recovery engine because local
// models enforce the JSON format loosely.
type LocalProvider struct {
	endpoint      string
	model         string
	healthTimeout time.Duration
	client        *http.Client
	opts          options
	proto         *protocol
}

var _ Provider = (*LocalProvider)(nil)

var errNoLocalModels = errors.New("ollama lists no models")

// NewLocalProvider creates the Ollama adapter. Empty endpoint, model and
// timing fields fall back to the configuration defaults.
func NewLocalProvider(cfg configuration.ProviderConfig, opts ...Option) *LocalProvider {
	defaults := configuration.DefaultConfig().Local
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = defaults.HealthTimeout
	}
	if cfg.DefaultMaxTokens <= 0 {
		cfg.DefaultMaxTokens = defaults.DefaultMaxTokens
	}
	if cfg.Timeout.Min <= 0 || cfg.Timeout.Max <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	o := newOptions(opts)
	p := &LocalProvider{
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		model:         cfg.Model,
		healthTimeout: cfg.HealthTimeout,
		client:        o.httpClient,
		opts:          o,
	}
	p.proto = &protocol{
		provider:         NameOllama,
		model:            cfg.Model,
		window:           cfg.Timeout,
		defaultMaxTokens: cfg.DefaultMaxTokens,
		complete:         p.complete,
		decode:           decodeRecovered,
		opts:             o,
	}
	return p
}

// Kind returns KindLocal.
func (p *LocalProvider) Kind() Kind { return KindLocal }

// Name returns NameOllama.
func (p *LocalProvider) Name() string { return NameOllama }

// Model returns the configured Ollama model tag.
func (p *LocalProvider) Model() string { return p.model }

// IsHealthy lists the server's installed models, bounded by the health
// timeout. The server is healthy only if it answers and lists at least one model.
func (p *LocalProvider) IsHealthy(ctx context.Context) bool {
	healthy := p.probe(ctx) == nil
	p.opts.metrics.ObserveHealth(NameOllama, healthy)
	return healthy
}

func (p *LocalProvider) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.opts.logger.Debug("ollama health probe failed", zap.Error(err))
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(tags.Models) == 0 {
		return errNoLocalModels
	}
	return nil
}

// GenerateJSON runs the structured-generation protocol against Ollama.
func (p *LocalProvider) GenerateJSON(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	return p.proto.generate(ctx, req)
}

// complete performs one non-streaming chat call in JSON mode.
func (p *LocalProvider) complete(ctx context.Context, c call) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: c.System},
			{Role: "user", Content: c.User},
		},
		Stream: false,
		Format: "json",
		Options: ollamaOptions{
			Temperature: c.Temperature,
			NumPredict:  c.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", classifyStatus(NameOllama, resp.StatusCode, string(bodyBytes))
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}
	return result.Message.Content, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
