package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrComparisonNotFound = errors.New("comparison run not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidLineItem    = errors.New("invalid line item")
	ErrInvalidDocument    = errors.New("invalid document")
	ErrInvalidTolerance   = errors.New("invalid tolerance")
	ErrInvalidKeyStrategy = errors.New("invalid key strategy")
	ErrUnsupportedFormat  = errors.New("unsupported report format")
	ErrBatchTooLarge      = errors.New("batch exceeds maximum number of pairs")
	ErrUploadFailed       = errors.New("report upload to storage failed")
	ErrStorageDisabled    = errors.New("report archive is not configured")
)

// ValidationError describes a single rejected input field. It unwraps to the
// sentinel identifying the kind of input that was rejected.
type ValidationError struct {
	Field  string
	Reason string
	kind   error
}

// NewValidationError creates a ValidationError that matches kind via errors.Is.
func NewValidationError(kind error, field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, kind: kind}
}

func (e *ValidationError) Error() string {
	if e.kind == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", e.kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}
