package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category classifies completion-service failures for routing decisions.
type Category string

const (
	// CategoryQuotaExhausted marks rate/quota exhaustion (HTTP 429 class).
	// RetryAfter may carry a provider-suggested cooldown.
	CategoryQuotaExhausted Category = "quota_exhausted"
	// CategoryTimeout marks a per-call deadline or cancellation.
	CategoryTimeout Category = "timeout"
	// CategoryGeneric marks every other service failure.
	CategoryGeneric Category = "generic"
)

// ServiceError is the single error type surfaced by Client implementations.
type ServiceError struct {
	Category   Category
	RetryAfter time.Duration // optional, quota only
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion service: %s (%s): %v", e.Message, e.Category, e.Err)
	}
	return fmt.Sprintf("completion service: %s (%s)", e.Message, e.Category)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// AsServiceError extracts a ServiceError from an error chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsQuotaExhausted reports whether err is a quota exhaustion condition.
func IsQuotaExhausted(err error) bool {
	se, ok := AsServiceError(err)
	return ok && se.Category == CategoryQuotaExhausted
}

// IsTimeout reports whether err is a timeout condition. Bare context
// deadline errors from callers that bypass an adapter count as timeouts too.
func IsTimeout(err error) bool {
	if se, ok := AsServiceError(err); ok {
		return se.Category == CategoryTimeout
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// QuotaError builds a quota exhaustion ServiceError with an optional cooldown.
func QuotaError(retryAfter time.Duration, cause error) *ServiceError {
	return &ServiceError{Category: CategoryQuotaExhausted, RetryAfter: retryAfter, Message: "quota exhausted", Err: cause}
}

// Wrap classifies an arbitrary adapter error into the taxonomy. Context
// cancellation and deadline errors become timeouts; everything else generic.
func Wrap(msg string, cause error) *ServiceError {
	category := CategoryGeneric
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		category = CategoryTimeout
	}
	return &ServiceError{Category: category, Message: msg, Err: cause}
}
