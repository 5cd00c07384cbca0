package httpclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		statusCode int
		wantCode   ErrorCode
		wantNil    bool
		retryable  bool
	}{
		{200, 0, true, false},
		{201, 0, true, false},
		{204, 0, true, false},
		{301, 0, true, false},
		{401, ErrCodeAuth, false, false},
		{403, ErrCodeAuth, false, false},
		{404, ErrCodeNotFound, false, false},
		{429, ErrCodeRateLimit, false, true},
		{400, ErrCodeValidation, false, false},
		{422, ErrCodeValidation, false, false},
		{500, ErrCodeServer, false, true},
		{503, ErrCodeServer, false, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			err := ClassifyStatusCode(tt.statusCode, []byte("body"))
			if tt.wantNil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tt.wantCode {
				t.Errorf("expected code %v, got %v", tt.wantCode, err.Code)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, err.Retryable)
			}
			if string(err.Body) != "body" {
				t.Errorf("expected body preserved, got %q", string(err.Body))
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	e := NewServerError(500, nil)
	if got := e.Error(); got != "httpclient: server (status 500): server error" {
		t.Errorf("unexpected error string: %q", got)
	}

	e2 := NewTimeoutError(errors.New("deadline"))
	if got := e2.Error(); got != "httpclient: timeout: request timed out" {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	e := NewConnectionError(cause)
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find cause")
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"timeout", NewTimeoutError(nil), IsTimeout, true},
		{"connection", NewConnectionError(nil), IsConnection, true},
		{"auth", NewAuthError(401, nil), IsAuth, true},
		{"not found", NewNotFoundError(nil), IsNotFound, true},
		{"rate limit", NewRateLimitError(nil), IsRateLimit, true},
		{"server", NewServerError(500, nil), IsServerError, true},
		{"retryable timeout", NewTimeoutError(nil), IsRetryable, true},
		{"not retryable validation", NewValidationError(400, nil), IsRetryable, false},
		{"wrapped", fmt.Errorf("call failed: %w", NewTimeoutError(nil)), IsTimeout, true},
		{"unrelated", errors.New("nope"), IsTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeAuth, "auth"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeValidation, "validation"},
		{ErrCodeServer, "server"},
		{ErrCodeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
