// Package errors provides the standardized error taxonomy for the
// search-aggregation and comparison engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration defects. The only codes a caller of the engine is
	// expected to see.
	ErrCodeUnknownCategory        ErrorCode = "UNKNOWN_CATEGORY"
	ErrCodeInvalidComparisonInput ErrorCode = "INVALID_COMPARISON_INPUT"

	// Store access. Isolated per category during search fan-out, logged,
	// never surfaced to the caller of Search.
	ErrCodeStoreConnectionFailed ErrorCode = "STORE_CONNECTION_FAILED"
	ErrCodeStoreQueryFailed      ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreQueryTimeout     ErrorCode = "STORE_QUERY_TIMEOUT"

	// Data quality. Recovered locally: the offending field is treated as
	// absent and normalization of the record continues.
	ErrCodeMalformedField ErrorCode = "MALFORMED_FIELD"

	// Inbound payload validation at the service boundary.
	ErrCodeInvalidCriteria ErrorCode = "INVALID_CRITERIA"
)

// StandardError represents a structured engine error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewUnknownCategoryError reports a request for a category that was never
// registered. Non-retryable: this is a configuration defect, not bad data.
func NewUnknownCategoryError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownCategory,
		Message:   "category is not registered",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreConnectionFailedError creates a retryable store connection error.
func NewStoreConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreConnectionFailed,
		Message:   "product store connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable per-category query error.
func NewStoreQueryFailedError(category string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "product store query error",
		Details:   fmt.Sprintf("category: %s, error: %s", category, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"category": category},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryTimeoutError creates a retryable per-category timeout error.
func NewStoreQueryTimeoutError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryTimeout,
		Message:   "product store query timeout",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: true,
		Metadata:  map[string]interface{}{"category": category},
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedFieldError records a field that was expected to hold an
// array/object but could not be parsed. The caller treats the field as
// absent; the error exists for logging and metrics only.
func NewMalformedFieldError(category, field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedField,
		Message:   "embedded field could not be parsed",
		Details:   fmt.Sprintf("category: %s, field: %s", category, field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidComparisonInputError reports a comparison call outside the
// supported 2..3 record range or with mixed categories.
func NewInvalidComparisonInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidComparisonInput,
		Message:   "comparison input rejected",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCriteriaError reports an inbound filter/compare payload that
// failed schema validation.
func NewInvalidCriteriaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCriteria,
		Message:   "request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// Normalize ensures any error is represented as a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
