package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeUnknown is an unclassified error.
	ErrCodeUnknown ErrorCode = iota
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout
	// ErrCodeConnection indicates a connection failure.
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication or authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting by the server (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a client-side error (other 4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a typed HTTP client error.
type Error struct {
	// StatusCode is the HTTP status code (0 if no response was received).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message is a human-readable description.
	Message string
	// Retryable indicates whether the request can be safely retried.
	Retryable bool
	// Body is the raw response body, if any.
	Body []byte
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:      ErrCodeTimeout,
		Message:   "request timed out",
		Retryable: true,
		Err:       err,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{
		Code:      ErrCodeConnection,
		Message:   "connection failed",
		Retryable: true,
		Err:       err,
	}
}

// NewAuthError creates an authentication error.
func NewAuthError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeAuth,
		Message:    "authentication failed",
		Retryable:  false,
		Body:       body,
	}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(body []byte) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       ErrCodeNotFound,
		Message:    "resource not found",
		Retryable:  false,
		Body:       body,
	}
}

// NewRateLimitError creates a rate limit error.
func NewRateLimitError(body []byte) *Error {
	return &Error{
		StatusCode: http.StatusTooManyRequests,
		Code:       ErrCodeRateLimit,
		Message:    "rate limited",
		Retryable:  true,
		Body:       body,
	}
}

// NewValidationError creates a validation error for 4xx responses.
func NewValidationError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeValidation,
		Message:    "request rejected",
		Retryable:  false,
		Body:       body,
	}
}

// NewServerError creates a server error for 5xx responses.
func NewServerError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeServer,
		Message:    "server error",
		Retryable:  true,
		Body:       body,
	}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx and 3xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 400:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthError(statusCode, body)
	case statusCode == http.StatusNotFound:
		return NewNotFoundError(body)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(body)
	case statusCode >= 400 && statusCode < 500:
		return NewValidationError(statusCode, body)
	default:
		return NewServerError(statusCode, body)
	}
}

// IsTimeout reports whether the error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection reports whether the error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsAuth reports whether the error is an authentication error.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAuth
}

// IsNotFound reports whether the error is a not-found error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// IsRateLimit reports whether the error is a rate limit error.
func IsRateLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRateLimit
}

// IsServerError reports whether the error is a server error.
func IsServerError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeServer
}

// IsRetryable reports whether the error is safe to retry.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
