package activity

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	llmerrors "github.com/ahrav/go-stratagem/internal/llm/errors"
)

// ErrActivityValidation is returned when activity input fails validation.
// Validation failures are programming errors and never retried.
var ErrActivityValidation = errors.New("activity input validation failed")

// Application error types for failures that do not originate in a provider.
const (
	ErrorTypeValidation = "validation"
	ErrorTypeCatalogue  = "catalogue"
)

// NonRetryableErrorTypes lists the application error types a workflow retry
// policy must not retry. Provider outages and timeouts are absent so that
// Temporal backs off and tries again.
var NonRetryableErrorTypes = []string{
	string(llmerrors.KindModelOutputInvalid),
	string(llmerrors.KindInternal),
	ErrorTypeValidation,
	ErrorTypeCatalogue,
}

// nonRetryable wraps an error as a Temporal non-retryable application error.
// The tag becomes the application error type.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// applicationError converts a structured-generation failure into a Temporal
// application error typed by its kind. Unavailable providers and timeouts are
// retryable; invalid output and internal failures are not. The typed error's
// details travel with the application error.
func applicationError(provider string, err error) error {
	typed := llmerrors.Classify(provider, err)
	tag := string(typed.Kind)
	switch typed.Kind {
	case llmerrors.KindProviderUnavailable, llmerrors.KindModelTimeout:
		return temporal.NewApplicationErrorWithCause(typed.Message, tag, err, typed.Details)
	default:
		return temporal.NewNonRetryableApplicationError(typed.Message, tag, err, typed.Details)
	}
}
