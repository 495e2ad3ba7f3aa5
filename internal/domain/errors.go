package domain

import "errors"

// ErrInvalidRequest indicates that a generation request violates its constraints.
var ErrInvalidRequest = errors.New("invalid generation request")

// ErrInvalidThemeVector indicates a theme component outside [0, 1].
var ErrInvalidThemeVector = errors.New("invalid theme vector")

// ErrInvalidFramework indicates a malformed catalogue entry.
var ErrInvalidFramework = errors.New("invalid framework definition")

// ErrInvalidBrief indicates a brief that cannot be ranked.
var ErrInvalidBrief = errors.New("invalid brief")

// ErrInvalidAnalysis indicates an analysis request with an unknown preference
// or an out-of-range framework limit.
var ErrInvalidAnalysis = errors.New("invalid analysis request")
