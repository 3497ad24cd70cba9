package utils

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds the configuration for the retry mechanism.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Timeout bounds each attempt; zero leaves the caller's deadline in charge.
	Timeout time.Duration

	// ShouldRetry decides whether a failed attempt is worth repeating.
	// A nil ShouldRetry retries every error.
	ShouldRetry func(error) bool
	// OnRetry is called before sleeping ahead of the next attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// RetryableFunc defines the signature for operations that can be retried.
type RetryableFunc[T any] func(ctx context.Context) (T, error)

// CompletionRetryConfig returns a RetryConfig for LLM completion calls.
func CompletionRetryConfig(maxAttempts int, timeout time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:   maxAttempts,
		InitialDelay:  2 * time.Second,
		MaxDelay:      20 * time.Second,
		BackoffFactor: 2.0,
		Timeout:       timeout,
	}
}

// WithRetry runs operation until it succeeds, MaxAttempts is reached, an
// error is not retryable, or ctx is done.
func WithRetry[T any](ctx context.Context, operation RetryableFunc[T], config RetryConfig) (T, error) {
	var zero T

	attempts := max(config.MaxAttempts, 1)
	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := attemptContext(ctx, config.Timeout)
		result, err := operation(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		if attempt == attempts || !config.retryable(err) {
			return zero, err
		}

		delay := config.Backoff(attempt)
		if config.OnRetry != nil {
			config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}
}

// Backoff returns the wait after the given failed attempt:
// InitialDelay * BackoffFactor^(attempt-1), capped at MaxDelay, plus up to
// 10% jitter.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	factor := c.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(factor, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}

	if jitterRange := int64(delay) / 10; jitterRange > 0 {
		delay += time.Duration(rand.Int63n(jitterRange))
	}
	return delay
}

func (c RetryConfig) retryable(err error) bool {
	if c.ShouldRetry == nil {
		return true
	}
	return c.ShouldRetry(err)
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
