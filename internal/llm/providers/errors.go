package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// Provider adapter errors.
var (
	// ErrSchemaMismatch indicates a decoded value that violates the request schema.
	ErrSchemaMismatch = errors.New("output does not match schema")

	// ErrEmptyCandidate indicates a hosted response with no text parts.
	ErrEmptyCandidate = errors.New("response contained no candidate text")
)

// errorBodyLimit bounds how much of an error response body is kept.
const errorBodyLimit = 2048

// classifyStatus converts a non-success HTTP status from a provider into an
// error. Credential, permission, rate and missing-model statuses become
// provider-unavailable failures that the protocol never retries; everything
// else stays untyped and consumes the single retry.
func classifyStatus(provider string, status int, body string) error {
	body = strings.TrimSpace(body)
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	msg := fmt.Sprintf("%s returned status %d", provider, status)
	if body != "" {
		msg += ": " + body
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llmerrors.ProviderUnavailable(provider, "provider rejected credentials", errors.New(msg)).
			WithDetail("status_code", status)
	case http.StatusTooManyRequests:
		return llmerrors.ProviderUnavailable(provider, "provider rate limit or quota exceeded", errors.New(msg)).
			WithDetail("status_code", status)
	case http.StatusNotFound:
		return llmerrors.ProviderUnavailable(provider, "model not available", errors.New(msg)).
			WithDetail("status_code", status)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return llmerrors.ModelTimeout(provider, "provider reported a timeout", errors.New(msg)).
			WithDetail("status_code", status)
	default:
		return errors.New(msg)
	}
}
