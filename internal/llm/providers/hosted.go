package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ahrav/go-stratagem/internal/domain"
	"github.com/ahrav/go-stratagem/internal/llm/configuration"
	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// HostedProvider generates structured output with the Gemini API.
//
// In native-schema mode (the default) the request carries the JSON Schema and
// the JSON response MIME type, and the output is decoded strictly without the
// recovery engine. With native mode disabled, the schema travels only in the
// prompt and the output goes through recovery like the local provider's.
type HostedProvider struct {
	model        string
	nativeSchema bool
	client       *genai.Client
	opts         options
	proto        *protocol
}

var _ Provider = (*HostedProvider)(nil)

// NewHostedProvider creates the Gemini adapter. Without an API key the
// provider is constructed but reports unhealthy and fails every call with a
// provider-unavailable error.
func NewHostedProvider(ctx context.Context, cfg configuration.ProviderConfig, opts ...Option) (*HostedProvider, error) {
	var client *genai.Client
	if cfg.APIKey != "" {
		cc := &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if cfg.Endpoint != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
		}
		var err error
		client, err = genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
	}

	p := newHostedProvider(cfg, nil, opts...)
	p.client = client
	return p, nil
}

// newHostedProvider wires the protocol. A nil complete selects the genai transport.
func newHostedProvider(cfg configuration.ProviderConfig, complete completeFunc, opts ...Option) *HostedProvider {
	defaults := configuration.DefaultConfig().Hosted
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.DefaultMaxTokens <= 0 {
		cfg.DefaultMaxTokens = defaults.DefaultMaxTokens
	}
	if cfg.Timeout.Min <= 0 || cfg.Timeout.Max <= 0 {
		cfg.Timeout = defaults.Timeout
	}

	o := newOptions(opts)
	p := &HostedProvider{
		model:        cfg.Model,
		nativeSchema: cfg.NativeSchema,
		opts:         o,
	}
	if complete == nil {
		complete = p.complete
	}

	decode := decodeRecovered
	if cfg.NativeSchema {
		decode = decodeStrict
	}
	p.proto = &protocol{
		provider:         NameGemini,
		model:            cfg.Model,
		window:           cfg.Timeout,
		defaultMaxTokens: cfg.DefaultMaxTokens,
		complete:         complete,
		decode:           decode,
		opts:             o,
	}
	return p
}

// Kind returns KindHosted.
func (p *HostedProvider) Kind() Kind { return KindHosted }

// Name returns NameGemini.
func (p *HostedProvider) Name() string { return NameGemini }

// Model returns the configured Gemini model.
func (p *HostedProvider) Model() string { return p.model }

// IsHealthy reports whether credentials are configured. It makes no network call.
func (p *HostedProvider) IsHealthy(_ context.Context) bool {
	healthy := p.client != nil
	p.opts.metrics.ObserveHealth(NameGemini, healthy)
	return healthy
}

// GenerateJSON runs the structured-generation protocol against Gemini.
func (p *HostedProvider) GenerateJSON(ctx context.Context, req domain.GenerationRequest) (json.RawMessage, error) {
	return p.proto.generate(ctx, req)
}

// complete performs one GenerateContent call.
func (p *HostedProvider) complete(ctx context.Context, c call) (string, error) {
	if p.client == nil {
		return "", llmerrors.ProviderUnavailable(NameGemini, "hosted provider not configured: missing API key", nil)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(c.Temperature)),
		MaxOutputTokens:   int32(c.MaxTokens), //nolint:gosec // bounded by the request validator
		ResponseMIMEType:  "application/json",
	}
	if p.nativeSchema {
		config.ResponseJsonSchema = c.Schema
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(c.User), config)
	if err != nil {
		return "", classifyGenAIError(err)
	}
	return candidateText(resp)
}

// classifyGenAIError types API errors whose status marks a provider-level failure.
func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(NameGemini, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("gemini generate: %w", err)
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyCandidate
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", ErrEmptyCandidate
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyCandidate
	}
	return b.String(), nil
}
