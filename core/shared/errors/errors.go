package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Store errors surfaced with the status the store reported
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeQueryFailed  ErrorCode = "QUERY_FAILED"

	// Infrastructure errors
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context.
// Details carries the underlying store message verbatim so the HTTP
// error body can expose it alongside the friendlier Message.
type AppError struct {
	Code    ErrorCode
	Message string
	Details string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error with the default status for its code
func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  httpStatus(code),
	}
}

// NewWithStatus creates an application error carrying a store-reported
// HTTP status. A zero status falls back to the code's default.
func NewWithStatus(code ErrorCode, message string, status int, err error) *AppError {
	if status == 0 {
		status = httpStatus(code)
	}
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  status,
	}
}

// WithDetails attaches underlying error details and returns the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// httpStatus maps error codes to HTTP status codes
func httpStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusRequestTimeout
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeQueryFailed, ErrCodeConnectionFailed, ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// StatusOf returns the HTTP status an error should surface as.
// Non-AppError values collapse to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsClientError checks if the error was caused by the request itself
func IsClientError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeInvalidInput
	}
	return false
}
