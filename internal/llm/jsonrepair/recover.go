// Package jsonrepair recovers structured JSON from free-form model output.
//
// Models wrap JSON in markdown fences, prepend prose, emit typographic quotes,
// leave trailing commas, use single-quoted strings, or stop mid-document when
// they run out of tokens. Parse applies a fixed sequence of increasingly
// aggressive transformations and returns the first candidate that decodes.
// The package is pure: no I/O, no shared state, safe for concurrent use.
package jsonrepair

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Recovery failure reasons. A *ParseError matches exactly one of them via errors.Is.
var (
	// ErrEmptyResponse indicates the input was empty after normalization.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoJSON indicates the input contains no object or array opener.
	ErrNoJSON = errors.New("no JSON found")

	// ErrIncompleteJSON indicates an opener was found but never balanced.
	ErrIncompleteJSON = errors.New("incomplete JSON structure")

	// ErrUnparseable indicates every candidate failed to decode.
	ErrUnparseable = errors.New("unable to parse JSON")
)

// ParseError aggregates a failed recovery into a single error.
type ParseError struct {
	// Reason is one of the package sentinels.
	Reason error
	// Attempts is the number of distinct candidates tried.
	Attempts int
	// Last is the decoder error from the final candidate, if any.
	Last error
}

// Error returns the reason, with the last decoder error when present.
func (e *ParseError) Error() string {
	if e.Last != nil && !errors.Is(e.Reason, ErrEmptyResponse) {
		return fmt.Sprintf("%s: %v", e.Reason, e.Last)
	}
	return e.Reason.Error()
}

// Unwrap exposes the reason sentinel.
func (e *ParseError) Unwrap() error { return e.Reason }

// Parse recovers a JSON value from text.
//
// Candidates are tried in order: the normalized text; the extracted balanced
// span (or, when extraction fails, the repaired text); each of those
// sanitized; each of those repaired and then sanitized. The first candidate
// that decodes wins. Values decode into the encoding/json generic shapes
// (map[string]any, []any, float64, string, bool, nil).
func Parse(text string) (any, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, &ParseError{Reason: ErrEmptyResponse}
	}

	candidate, extractErr := Extract(normalized)
	if extractErr != nil {
		if repaired, ok := Repair(normalized); ok {
			candidate = repaired
		}
	}

	attempts := []string{normalized}
	if candidate != "" {
		attempts = append(attempts, candidate)
	}
	attempts = append(attempts, Sanitize(normalized))
	if candidate != "" {
		attempts = append(attempts, Sanitize(candidate))
	}
	if repaired, ok := Repair(normalized); ok {
		attempts = append(attempts, Sanitize(repaired))
	}
	if candidate != "" {
		if repaired, ok := Repair(candidate); ok {
			attempts = append(attempts, Sanitize(repaired))
		}
	}

	var (
		tried = make(map[string]struct{}, len(attempts))
		last  error
	)
	for _, attempt := range attempts {
		if _, seen := tried[attempt]; seen {
			continue
		}
		tried[attempt] = struct{}{}

		var v any
		if err := json.Unmarshal([]byte(attempt), &v); err != nil {
			last = err
			continue
		}
		return v, nil
	}

	reason := ErrUnparseable
	if extractErr != nil {
		reason = extractErr
	}
	return nil, &ParseError{Reason: reason, Attempts: len(tried), Last: last}
}

// Recover is Parse followed by canonical re-encoding.
func Recover(text string) ([]byte, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
