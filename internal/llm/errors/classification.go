package errors

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
)

// providerFailurePattern matches provider-level rejection markers in
// untyped transport messages: credentials, permissions, quota and rate limits.
var providerFailurePattern = regexp.MustCompile(
	`(?i)(\bauth(entication|orization|enticate)?\b|unauthori[sz]ed|unauthenticated|forbidden|permission[ _]denied|` +
		`\b401\b|\b403\b|\b429\b|quota|resource[ _]exhausted|rate[ _-]?limit|too many requests|` +
		`api key|not configured)`,
)

// networkFailureMarkers identify connectivity failures reported as plain text.
var networkFailureMarkers = []string{
	"connection refused",
	"no such host",
	"connection reset",
	"network is unreachable",
	"dial tcp",
}

// IsProviderFailure reports whether err is a provider-level failure: a typed
// provider-unavailable error, a network error, or an untyped error whose
// message carries auth, quota or rate markers. Such failures are never retried
// by the structured-generation protocol.
func IsProviderFailure(err error) bool {
	if err == nil {
		return false
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind == KindProviderUnavailable
	}
	if isNetworkError(err) {
		return true
	}
	return providerFailurePattern.MatchString(err.Error())
}

// IsTimeout reports whether err represents an expired deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind == KindModelTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return !opErr.Timeout()
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range networkFailureMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Classify converts any error into an *Error. Typed errors pass through
// unchanged; context errors, provider-level markers and timeouts are mapped to
// their kinds; everything else becomes KindInternal.
func Classify(provider string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Internal("generation cancelled", err)
	case IsTimeout(err):
		return ModelTimeout(provider, "provider call timed out", err)
	case IsProviderFailure(err):
		return ProviderUnavailable(provider, "provider rejected the call", err)
	default:
		return Internal("unexpected failure", err)
	}
}
