package completion

import (
	"context"
	"log/slog"
	"time"

	"github.com/socialchef/dishcraft/internal/utils"
)

// RetryProvider retries transient failures of the wrapped provider with
// exponential backoff.
type RetryProvider struct {
	next   Provider
	name   string
	config utils.RetryConfig
}

// NewRetryProvider wraps next. The config's ShouldRetry is replaced with
// IsRetryableError.
func NewRetryProvider(next Provider, name string, config utils.RetryConfig) *RetryProvider {
	config.ShouldRetry = IsRetryableError
	config.OnRetry = func(attempt int, err error, delay time.Duration) {
		slog.Warn("Completion failed, retrying",
			"provider", name,
			"attempt", attempt,
			"error_type", ClassifyError(err, name).Type,
			"delay", delay)
	}
	return &RetryProvider{next: next, name: name, config: config}
}

func (r *RetryProvider) Complete(ctx context.Context, prompt string, params SamplingParams) (string, error) {
	text, err := utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return r.next.Complete(ctx, prompt, params)
	}, r.config)
	if err != nil {
		return "", ClassifyError(err, r.name)
	}
	return text, nil
}
