package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
)

// Init initializes Sentry with the provided configuration.
// If DSN is empty, Sentry initialization is skipped and nil is returned.
func Init(dsn, env, serviceName, serviceVersion string) error {
	if dsn == "" {
		return nil
	}

	options := sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		ServerName:       serviceName,
		Release:          serviceVersion,
		AttachStacktrace: true,
		TracesSampleRate: 0.0, // Disable Sentry tracing, use OpenTelemetry instead
		BeforeSend:       dropOperational,
	}

	if err := sentry.Init(options); err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	return nil
}

// Flush waits for all pending Sentry events to be sent.
// Call this during graceful shutdown.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Recover captures a panic and forwards it to Sentry.
func Recover() {
	sentry.Recover()
}

// CaptureError reports err using the hub bound to ctx, falling back to the
// current hub.
func CaptureError(ctx context.Context, err error) {
	if err == nil || isOperational(err) {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// dropOperational discards events for expected failures such as provider
// outages or bad dish numbers, whichever path reported them.
func dropOperational(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if hint != nil && isOperational(hint.OriginalException) {
		return nil
	}
	return event
}

func isOperational(err error) bool {
	if err == nil {
		return false
	}
	appErr, ok := apperrors.As(err)
	return ok && appErr.IsOperational
}
