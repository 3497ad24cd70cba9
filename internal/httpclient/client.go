package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single completion round trip. Recipe replies are
// long, so this is generous.
const DefaultTimeout = 120 * time.Second

// DefaultTransport is the base transport used by the instrumented client.
var DefaultTransport = http.DefaultTransport

// Call identifies the completion request an outgoing HTTP request belongs to.
type Call struct {
	Provider string
	Model    string
}

type callKey struct{}

// WithCall tags ctx so requests made with it are attributed to call.
func WithCall(ctx context.Context, call Call) context.Context {
	return context.WithValue(ctx, callKey{}, call)
}

// CallFromContext returns the Call set by WithCall.
func CallFromContext(ctx context.Context) (Call, bool) {
	call, ok := ctx.Value(callKey{}).(Call)
	return call, ok
}

// callTransport annotates the otelhttp client span with the completion call
// and marks throttled or failed responses.
type callTransport struct {
	base http.RoundTripper
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	if call, ok := CallFromContext(req.Context()); ok {
		span.SetAttributes(
			attribute.String("completion.provider", call.Provider),
			attribute.String("completion.model", call.Model),
		)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		span.SetAttributes(attribute.Bool("completion.rate_limited", true))
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			span.SetAttributes(attribute.String("completion.retry_after", ra))
		}
		span.SetStatus(codes.Error, "rate limited")
	case resp.StatusCode >= 400:
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}
	return resp, nil
}

func newOtelTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(&callTransport{base: base},
		otelhttp.WithSpanNameFormatter(spanName),
	)
}

// spanName never includes the query string: some LLM APIs accept keys there.
func spanName(_ string, r *http.Request) string {
	if call, ok := CallFromContext(r.Context()); ok {
		return fmt.Sprintf("%s %s %s", call.Provider, r.Method, r.URL.Path)
	}
	return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
}

// InstrumentedClient is the shared client for completion providers.
var InstrumentedClient = NewInstrumentedClient(DefaultTimeout)

// NewInstrumentedClient returns a traced client with the given timeout,
// DefaultTimeout when zero or negative.
func NewInstrumentedClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: newOtelTransport(DefaultTransport),
		Timeout:   timeout,
	}
}
