package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Zero-value identifiers used when no tracing scope is active. Records always
// carry both fields at fixed width so downstream log pipelines can index them
// unconditionally.
const (
	ZeroTraceID = "00000000000000000000000000000000"
	ZeroSpanID  = "0000000000000000"
)

// TraceIDs returns the active span's trace and span identifiers as 32 and 16
// lowercase hex digits. When ctx carries no span, the span is not recording,
// or its context is invalid, both sentinels are returned. Extraction never
// panics out: any failure degrades to the sentinels.
func TraceIDs(ctx context.Context) (traceID, spanID string) {
	traceID, spanID = ZeroTraceID, ZeroSpanID
	if ctx == nil {
		return
	}
	defer func() {
		if recover() != nil {
			traceID, spanID = ZeroTraceID, ZeroSpanID
		}
	}()

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// traceHandler stamps trace_id and span_id on every record. It sits in the
// handler chain under both the app logger and the slog default, so any logger
// derived from either inherits the correlation fields.
type traceHandler struct{ next slog.Handler }

func (h traceHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	traceID, spanID := TraceIDs(ctx)
	r.AddAttrs(
		slog.String("trace_id", traceID),
		slog.String("span_id", spanID),
	)
	return h.next.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{next: h.next.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{next: h.next.WithGroup(name)}
}
