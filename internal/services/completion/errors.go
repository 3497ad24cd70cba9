package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ErrorType classifies a provider failure.
type ErrorType string

const (
	ErrorTypeRateLimit       ErrorType = "rate_limit"
	ErrorTypeCreditExhausted ErrorType = "credit_exhausted"
	ErrorTypeAuth            ErrorType = "auth"
	ErrorTypeServer          ErrorType = "server_error"
	ErrorTypeClient          ErrorType = "client_error"
	ErrorTypeTransport       ErrorType = "transport"
	ErrorTypeEmptyResponse   ErrorType = "empty_response"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// ProviderError represents a classified error from a completion provider
type ProviderError struct {
	Type       ErrorType
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StatusError is returned by providers that speak raw HTTP when the API
// answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// ClassifyError analyzes an error and returns a ProviderError with classification.
// Errors that are already classified are returned unchanged.
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	msg := err.Error()
	pe := &ProviderError{Provider: provider, Message: msg, Err: err}

	if status := statusCode(err); status != 0 {
		pe.StatusCode = status
		pe.Type = classifyStatus(status, msg)
		return pe
	}

	switch {
	case errors.Is(err, ErrEmptyResponse):
		pe.Type = ErrorTypeEmptyResponse
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		pe.Type = ErrorTypeTransport
	case isNetError(err):
		pe.Type = ErrorTypeTransport
	default:
		pe.Type = classifyMessage(msg)
	}
	return pe
}

// statusCode digs the HTTP status out of the SDK error types.
func statusCode(err error) int {
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func classifyStatus(status int, msg string) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		if isCreditMessage(msg) {
			return ErrorTypeCreditExhausted
		}
		return ErrorTypeRateLimit
	case status == http.StatusPaymentRequired:
		return ErrorTypeCreditExhausted
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorTypeAuth
	case status >= 500:
		return ErrorTypeServer
	case status >= 400:
		return ErrorTypeClient
	default:
		return ErrorTypeUnknown
	}
}

func classifyMessage(msg string) ErrorType {
	switch {
	case containsAny(msg, "status 429", "HTTP 429", "rate limit", "too many requests", "resource_exhausted"):
		return ErrorTypeRateLimit
	case containsAny(msg, "status 402", "HTTP 402") || isCreditMessage(msg):
		return ErrorTypeCreditExhausted
	case containsAny(msg, "status 401", "status 403", "unauthorized", "forbidden", "invalid api key"):
		return ErrorTypeAuth
	case containsAny(msg, "status 5", "HTTP 5", "server error", "internal error", "unavailable"):
		return ErrorTypeServer
	case containsAny(msg, "status 4", "HTTP 4", "bad request"):
		return ErrorTypeClient
	default:
		return ErrorTypeUnknown
	}
}

func isCreditMessage(msg string) bool {
	return containsAny(msg, "insufficient credit", "credit exhausted", "insufficient_quota", "billing")
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsRetryableError reports whether calling the same provider again may succeed.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch ClassifyError(err, "").Type {
	case ErrorTypeRateLimit, ErrorTypeServer, ErrorTypeTransport, ErrorTypeEmptyResponse:
		return !errors.Is(err, context.Canceled)
	default:
		return false
	}
}

// ShouldFallback reports whether a different provider may succeed where this one failed.
func ShouldFallback(err error) bool {
	if IsRetryableError(err) {
		return true
	}
	if err == nil {
		return false
	}
	return ClassifyError(err, "").Type == ErrorTypeCreditExhausted
}

// outcome labels a call result for metrics.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(ClassifyError(err, "").Type)
}

// containsAny checks if s contains any of the substrings (case-insensitive)
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
