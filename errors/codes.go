package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Discovery errors
const (
	// ErrCodeDiscoveryUnavailable indicates no registry snapshot could be produced
	// from the remote source and no fallback table is configured.
	ErrCodeDiscoveryUnavailable ErrorCode = "DISCOVERY_UNAVAILABLE"
	// ErrCodeUnknownService indicates the service name is absent from the
	// current registry snapshot.
	ErrCodeUnknownService ErrorCode = "UNKNOWN_SERVICE"
	// ErrCodeProbeFailed indicates a health probe attempt failed. Probe errors
	// are recorded in the status table and the interaction log, never raised.
	ErrCodeProbeFailed ErrorCode = "PROBE_FAILED"
)

// Workflow errors
const (
	// ErrCodeBackendRejected indicates the backend refused the request with a
	// structured error; the backend-supplied detail is carried verbatim.
	ErrCodeBackendRejected ErrorCode = "BACKEND_REJECTED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Resource and internal errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable:   true,
	ErrCodeConnectionFailed:     true,
	ErrCodeTimeout:              true,
	ErrCodeRateLimited:          true,
	ErrCodeDiscoveryUnavailable: true,
	ErrCodeProbeFailed:          true,
	ErrCodeBackendRejected:      false,
	ErrCodeUnknownService:       false,
	ErrCodeInternal:             false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
