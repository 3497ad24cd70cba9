package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/socialchef/dishcraft"

// New returns the service logger: JSON at info level in production, text at
// debug level elsewhere. Records are also emitted to the global otel logger
// provider.
func New(env string) *slog.Logger {
	if env == "production" {
		return NewWithOutput(env, os.Stdout, slog.LevelInfo)
	}
	return NewWithOutput(env, os.Stdout, slog.LevelDebug)
}

// NewWithOutput is New with an explicit writer and minimum level. The CLI uses
// it to keep log lines on stderr, away from the conversation on stdout.
func NewWithOutput(env string, w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(&bridgeHandler{next: handler})
}

// WithTraceContext returns a slog.Attr containing trace_id and span_id if available in the context.
func WithTraceContext(ctx context.Context) slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return slog.Attr{}
	}
	return slog.Group("trace",
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

// bridgeHandler writes through to next and mirrors every record to otel.
// Attributes added under WithGroup are flattened as "group.key".
type bridgeHandler struct {
	next   slog.Handler
	attrs  []log.KeyValue
	prefix string
}

func (h *bridgeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *bridgeHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}

	var rec log.Record
	rec.SetTimestamp(r.Time)
	rec.SetBody(log.StringValue(r.Message))
	rec.SetSeverity(severity(r.Level))
	rec.SetSeverityText(r.Level.String())
	rec.AddAttributes(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if kv, ok := h.keyValue(a); ok {
			rec.AddAttributes(kv)
		}
		return true
	})

	global.GetLoggerProvider().Logger(instrumentationName).Emit(ctx, rec)
	return nil
}

func (h *bridgeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]log.KeyValue, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		if kv, ok := h.keyValue(a); ok {
			merged = append(merged, kv)
		}
	}
	return &bridgeHandler{next: h.next.WithAttrs(attrs), attrs: merged, prefix: h.prefix}
}

func (h *bridgeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &bridgeHandler{next: h.next.WithGroup(name), attrs: h.attrs, prefix: h.prefix + name + "."}
}

// keyValue converts a slog attribute, dropping empty ones as slog handlers do.
func (h *bridgeHandler) keyValue(a slog.Attr) (log.KeyValue, bool) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return log.KeyValue{}, false
	}
	return log.KeyValue{Key: h.prefix + a.Key, Value: toOTelValue(a.Value)}, true
}

func severity(l slog.Level) log.Severity {
	switch {
	case l >= slog.LevelError:
		return log.SeverityError
	case l >= slog.LevelWarn:
		return log.SeverityWarn
	case l >= slog.LevelInfo:
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

func toOTelValue(v slog.Value) log.Value {
	switch v.Kind() {
	case slog.KindString:
		return log.StringValue(v.String())
	case slog.KindInt64:
		return log.Int64Value(v.Int64())
	case slog.KindUint64:
		return log.Int64Value(int64(v.Uint64()))
	case slog.KindBool:
		return log.BoolValue(v.Bool())
	case slog.KindFloat64:
		return log.Float64Value(v.Float64())
	case slog.KindDuration:
		return log.Int64Value(v.Duration().Milliseconds())
	case slog.KindGroup:
		group := v.Group()
		kvs := make([]log.KeyValue, 0, len(group))
		for _, a := range group {
			kvs = append(kvs, log.KeyValue{Key: a.Key, Value: toOTelValue(a.Value.Resolve())})
		}
		return log.MapValue(kvs...)
	default:
		return log.StringValue(v.String())
	}
}
