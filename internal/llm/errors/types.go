// Package errors defines the closed failure taxonomy shared by every
// structured-generation component. Callers branch on Kind, never on message
// text, and map Status directly onto transport-level responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a structured-generation failure.
// The set is closed: every error leaving the core carries exactly one Kind.
type Kind string

const (
	// KindProviderUnavailable indicates the selected provider is unreachable,
	// unconfigured, unhealthy, or rejected the call for auth/quota/rate reasons.
	KindProviderUnavailable Kind = "provider_unavailable"

	// KindModelOutputInvalid indicates the provider answered but neither the
	// primary nor the strict retry produced schema-valid JSON.
	KindModelOutputInvalid Kind = "model_output_invalid"

	// KindModelTimeout indicates a provider call exceeded its timeout window.
	KindModelTimeout Kind = "model_timeout"

	// KindInternal indicates an unexpected failure inside the core.
	KindInternal Kind = "internal_error"
)

// Status returns the numeric status paired with the kind.
func (k Kind) Status() int {
	switch k {
	case KindProviderUnavailable:
		return http.StatusServiceUnavailable
	case KindModelOutputInvalid:
		return http.StatusBadGateway
	case KindModelTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Kind sentinels matched by errors.Is against any *Error of the same kind.
var (
	// ErrProviderUnavailable matches KindProviderUnavailable errors.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrModelOutputInvalid matches KindModelOutputInvalid errors.
	ErrModelOutputInvalid = errors.New("model output invalid")

	// ErrModelTimeout matches KindModelTimeout errors.
	ErrModelTimeout = errors.New("model timeout")

	// ErrInternal matches KindInternal errors.
	ErrInternal = errors.New("internal error")
)

// Error is the single typed failure returned by adapters, the protocol and
// the router. Details carries structured diagnostics such as the provider
// name or truncated raw outputs; it never carries prompt text.
type Error struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

// Error returns the kind-prefixed message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As traversal.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return sentinelFor(e.Kind) == target
}

// WithDetail returns e after setting a single detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func sentinelFor(k Kind) error {
	switch k {
	case KindProviderUnavailable:
		return ErrProviderUnavailable
	case KindModelOutputInvalid:
		return ErrModelOutputInvalid
	case KindModelTimeout:
		return ErrModelTimeout
	default:
		return ErrInternal
	}
}

// New builds an *Error of the given kind with its canonical status.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Status: kind.Status(), Cause: cause}
}

// ProviderUnavailable builds a KindProviderUnavailable error naming provider.
func ProviderUnavailable(provider, message string, cause error) *Error {
	return New(KindProviderUnavailable, message, cause).WithDetail("provider", provider)
}

// ModelOutputInvalid builds a KindModelOutputInvalid error.
func ModelOutputInvalid(provider, message string, details map[string]any) *Error {
	e := New(KindModelOutputInvalid, message, nil)
	e.Details = details
	return e.WithDetail("provider", provider)
}

// ModelTimeout builds a KindModelTimeout error.
func ModelTimeout(provider, message string, cause error) *Error {
	return New(KindModelTimeout, message, cause).WithDetail("provider", provider)
}

// Internal builds a KindInternal error.
func Internal(message string, cause error) *Error {
	return New(KindInternal, message, cause)
}

// KindOf returns the Kind carried by err, or KindInternal when err is not typed.
// It returns the empty Kind for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf returns the numeric status for err.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return KindOf(err).Status()
}
