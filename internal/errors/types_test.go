package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &AppError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
	if !errors.Is(errWithWrap, wrappedErr) {
		t.Error("expected Unwrap to expose the underlying error")
	}
}

func TestAppError_Code(t *testing.T) {
	err := &AppError{
		ErrorCode: "ERR_CODE_123",
	}
	if err.Code() != "ERR_CODE_123" {
		t.Errorf("expected ERR_CODE_123, got %v", err.Code())
	}
}

func TestAppError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want bool
	}{
		{
			name: "provider error without retry hint but 5xx is retryable",
			err: &AppError{
				Type:       ErrorTypeProvider,
				StatusCode: http.StatusBadGateway,
			},
			want: true,
		},
		{
			name: "validation error is not retryable",
			err: &AppError{
				Type:       ErrorTypeValidation,
				StatusCode: http.StatusBadRequest,
			},
			want: false,
		},
		{
			name: "provider error is retryable",
			err:  NewProviderError("completion failed", "COMPLETION_FAILED", nil),
			want: true,
		},
		{
			name: "invalid selection is not retryable",
			err:  NewInvalidSelectionError("no such dish", "DISH_INDEX_OUT_OF_RANGE"),
			want: false,
		},
		{
			name: "internal error is not retryable",
			err:  NewInternalError("session store down", "SESSION_STORE", errors.New("eof")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("AppError.IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid input", "VALIDATION_FAILED", "Check your fields")
	if err.Type != ErrorTypeValidation {
		t.Errorf("expected TypeValidation, got %v", err.Type)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err.StatusCode)
	}
	if err.RecoverySuggestion() != "Check your fields" {
		t.Errorf("expected 'Check your fields', got %v", err.RecoverySuggestion())
	}
}

func TestNewProviderError(t *testing.T) {
	underlying := errors.New("quota exceeded")
	err := NewProviderError("could not generate dishes", "BRAINSTORM_FAILED", underlying)
	if err.Type != ErrorTypeProvider {
		t.Errorf("expected TypeProvider, got %v", err.Type)
	}
	if err.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err.StatusCode)
	}
	if err.RetryAfter != DefaultRetryAfterSeconds {
		t.Errorf("expected retry after %d, got %d", DefaultRetryAfterSeconds, err.RetryAfter)
	}
	if err.Err != underlying {
		t.Error("underlying error not correctly wrapped")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("GEMINI_API_KEY is required", "MISSING_API_KEY")
	if err.IsOperational {
		t.Error("config errors must not be operational")
	}
	if err.Type != ErrorTypeConfig {
		t.Errorf("expected TypeConfig, got %v", err.Type)
	}
}

func TestAsAndIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewInvalidSelectionError("no such dish", "DISH_INDEX_OUT_OF_RANGE"))

	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if appErr.Code() != "DISH_INDEX_OUT_OF_RANGE" {
		t.Errorf("unexpected code %q", appErr.Code())
	}
	if !Is(wrapped, ErrorTypeInvalidSelection) {
		t.Error("expected Is to match invalid selection")
	}
	if Is(wrapped, ErrorTypeProvider) {
		t.Error("did not expect Is to match provider error")
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("plain errors carry no AppError")
	}
}
