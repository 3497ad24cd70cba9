package completion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/socialchef/dishcraft/internal/logger"
	"github.com/socialchef/dishcraft/internal/metrics"
)

// FallbackProvider implements Provider with fallback logic
type FallbackProvider struct {
	Primary       Provider
	Secondary     Provider
	PrimaryName   string
	SecondaryName string
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(primary Provider, primaryName string, secondary Provider, secondaryName string) *FallbackProvider {
	return &FallbackProvider{
		Primary:       primary,
		Secondary:     secondary,
		PrimaryName:   primaryName,
		SecondaryName: secondaryName,
	}
}

// Complete tries the primary provider first, falls back to secondary on
// errors another provider could plausibly avoid (rate limits, exhausted
// credit, outages).
func (f *FallbackProvider) Complete(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	text, err := f.Primary.Complete(ctx, prompt, params)
	if err == nil {
		return text, nil
	}

	primaryErr := ClassifyError(err, f.PrimaryName)

	if !ShouldFallback(primaryErr) {
		slog.Info("Primary provider failed with non-retryable error, not attempting fallback",
			"provider", f.PrimaryName,
			"error_type", primaryErr.Type,
			"error", primaryErr.Error(),
			logger.WithTraceContext(ctx))
		return "", primaryErr
	}

	slog.Info("Primary provider failed with retryable error, attempting fallback",
		"provider", f.PrimaryName,
		"fallback", f.SecondaryName,
		"error_type", primaryErr.Type,
		"error", primaryErr.Error(),
		logger.WithTraceContext(ctx))
	metrics.RecordFallback(ctx, f.PrimaryName, f.SecondaryName, string(primaryErr.Type))

	text, fallbackErr := f.Secondary.Complete(ctx, prompt, params)
	if fallbackErr == nil {
		slog.Info("Fallback provider succeeded",
			"provider", f.SecondaryName,
			"primary_error_type", primaryErr.Type)
		return text, nil
	}

	secondaryErr := ClassifyError(fallbackErr, f.SecondaryName)
	slog.Error("Both primary and secondary providers failed",
		"primary_error_type", primaryErr.Type,
		"primary_error", primaryErr.Error(),
		"fallback_error_type", secondaryErr.Type,
		"fallback_error", secondaryErr.Error(),
		logger.WithTraceContext(ctx))

	return "", &ProviderError{
		Type:       secondaryErr.Type,
		Provider:   f.SecondaryName,
		StatusCode: secondaryErr.StatusCode,
		Message:    "both primary and secondary providers failed",
		Err:        errors.Join(primaryErr, secondaryErr),
	}
}
