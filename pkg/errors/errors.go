package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeCancelled indicates the operation was superseded or aborted.
	// Never user-visible: callers absorb it and return empty results.
	ErrorTypeCancelled ErrorType = "CANCELLED"

	// ErrorTypeSource indicates an entity source adapter failed
	ErrorTypeSource ErrorType = "SOURCE"

	// ErrorTypeTelemetry indicates a telemetry send failed; always swallowed
	ErrorTypeTelemetry ErrorType = "TELEMETRY"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewCancelledError creates a new cancellation error
func NewCancelledError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeCancelled,
		Message: message,
		Err:     err,
	}
}

// NewSourceError creates a new source adapter error
func NewSourceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSource,
		Message: message,
		Err:     err,
	}
}

// NewTelemetryError creates a new telemetry error
func NewTelemetryError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTelemetry,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsCancellation reports whether err stems from a superseded or aborted
// session, either as an AppError or a raw context error.
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return IsType(err, ErrorTypeCancelled)
}
