package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the service layer. Handlers map these onto
// HTTP statuses; services never pick status codes themselves.
var (
	// ErrNotFound covers both "does not exist" and "exists but belongs to
	// someone else" so lookups leak nothing about other users' data.
	ErrNotFound = errors.New("resource not found")

	// ErrServiceUnavailable means the generation service is unconfigured or
	// unreachable.
	ErrServiceUnavailable = errors.New("generation service unavailable")

	// ErrSafetyBlocked means the generation service refused the request on
	// safety grounds and returned no content.
	ErrSafetyBlocked = errors.New("generation blocked by safety policy")
)

// ValidationError carries a human-readable reason safe to show clients.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseError means the model answered but its output survived none of the
// JSON recovery strategies. Raw holds a truncated copy for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model returned unparseable JSON: %s", e.Raw)
}
