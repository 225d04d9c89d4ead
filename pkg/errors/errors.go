package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeTracker    = "TRACKER_ERROR"
	CodeStore      = "STORE_UNAVAILABLE"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
)

type TrackerError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *TrackerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TrackerError) Unwrap() error {
	return e.Cause
}

func NewTrackerError(message, code string, statusCode int, context map[string]any) *TrackerError {
	return &TrackerError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *TrackerError) WithCause(cause error) *TrackerError {
	e.Cause = cause
	return e
}

// StoreError signals that the persistent reference store failed or timed out.
// A store outage must stay distinguishable from a confirmed "no match";
// callers check IsStoreUnavailable instead of treating the error as absence.
type StoreError struct {
	*TrackerError
	Operation string
}

func NewStoreError(message, operation string, cause error) *StoreError {
	return &StoreError{
		TrackerError: &TrackerError{
			Message:    message,
			Code:       CodeStore,
			StatusCode: 503,
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}

// IsStoreUnavailable reports whether err (or anything it wraps) is a StoreError.
func IsStoreUnavailable(err error) bool {
	var se *StoreError
	return stderrors.As(err, &se)
}

type ValidationError struct {
	*TrackerError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		TrackerError: &TrackerError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*TrackerError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		TrackerError: &TrackerError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*TrackerError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		TrackerError: &TrackerError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}
