package apperrors

import (
	"errors"
	"fmt"
)

// ErrBreakerOpen is returned when a circuit breaker rejects a call without
// invoking the underlying operation. It is never retried.
var ErrBreakerOpen = errors.New("circuit breaker open, skipping external call")

// ValidationError marks a malformed request or missing input. Caller's
// fault, never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a lookup that was required to resolve but did not.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ConfigurationError marks impossible component configuration (e.g. chunking
// bounds). Deterministic, never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ExternalServiceError marks an embedding / vector search / completion /
// persistence failure. StatusHint carries the upstream HTTP status when one
// is known (0 otherwise) so the retry classifier can tell 429 from 400.
type ExternalServiceError struct {
	Message    string
	StatusHint int
	Cause      error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusHint > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusHint)
	}
	return e.Message
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Cause
}

func NewExternalServiceError(message string, statusHint int, cause error) *ExternalServiceError {
	return &ExternalServiceError{Message: message, StatusHint: statusHint, Cause: cause}
}
