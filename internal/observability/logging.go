package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the service logger: JSON to stdout, wrapped so records
// emitted inside a span carry trace_id/span_id.
func NewLogger(env, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	})
	return slog.New(TraceContextHandler{Handler: handler}).With("env", env)
}

type TraceContextHandler struct {
	slog.Handler
}

func (h TraceContextHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanContextFromContext(ctx)
	if span.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", span.TraceID().String()),
			slog.String("span_id", span.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, record)
}

func (h TraceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return TraceContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h TraceContextHandler) WithGroup(name string) slog.Handler {
	return TraceContextHandler{Handler: h.Handler.WithGroup(name)}
}
