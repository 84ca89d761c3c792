package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// fixedIDGenerator hands out a known trace/span ID pair so tests can assert
// on exact hex output.
type fixedIDGenerator struct {
	traceID trace.TraceID
	spanID  trace.SpanID
}

func (g fixedIDGenerator) NewIDs(ctx context.Context) (trace.TraceID, trace.SpanID) {
	return g.traceID, g.spanID
}

func (g fixedIDGenerator) NewSpanID(ctx context.Context, traceID trace.TraceID) trace.SpanID {
	return g.spanID
}

func recordingSpanContext(t *testing.T) (context.Context, trace.Span) {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("abcd00000000000000000000000000ef")
	if err != nil {
		t.Fatalf("trace id: %v", err)
	}
	spanID, err := trace.SpanIDFromHex("1234000000000056")
	if err != nil {
		t.Fatalf("span id: %v", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithIDGenerator(fixedIDGenerator{traceID: traceID, spanID: spanID}),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return tp.Tracer("test").Start(context.Background(), "op")
}

func TestTraceIDs_RecordingSpan(t *testing.T) {
	ctx, span := recordingSpanContext(t)
	defer span.End()

	traceID, spanID := TraceIDs(ctx)

	if traceID != "abcd00000000000000000000000000ef" {
		t.Fatalf("trace_id = %q", traceID)
	}
	if spanID != "1234000000000056" {
		t.Fatalf("span_id = %q", spanID)
	}
}

func TestTraceIDs_NoSpan(t *testing.T) {
	traceID, spanID := TraceIDs(context.Background())

	if traceID != ZeroTraceID {
		t.Fatalf("trace_id = %q, want all zeros", traceID)
	}
	if spanID != ZeroSpanID {
		t.Fatalf("span_id = %q, want all zeros", spanID)
	}
	if len(traceID) != 32 || len(spanID) != 16 {
		t.Fatalf("sentinel widths = %d/%d, want 32/16", len(traceID), len(spanID))
	}
}

func TestTraceIDs_NilContext(t *testing.T) {
	traceID, spanID := TraceIDs(nil)
	if traceID != ZeroTraceID || spanID != ZeroSpanID {
		t.Fatalf("nil ctx: got %q/%q, want sentinels", traceID, spanID)
	}
}

func TestTraceIDs_NonRecordingSpan(t *testing.T) {
	// a propagated-only span context produces a non-recording span
	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	gotTrace, gotSpan := TraceIDs(ctx)
	if gotTrace != ZeroTraceID || gotSpan != ZeroSpanID {
		t.Fatalf("non-recording span: got %q/%q, want sentinels", gotTrace, gotSpan)
	}
}

func decodeOneRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record %q: %v", buf.String(), err)
	}
	return rec
}

func TestLogger_RecordsCarryTraceFields(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Options{App: "test", JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, span := recordingSpanContext(t)
	defer span.End()

	lg.Info(ctx, "hello")

	rec := decodeOneRecord(t, &buf)
	if rec["trace_id"] != "abcd00000000000000000000000000ef" {
		t.Fatalf("trace_id = %v", rec["trace_id"])
	}
	if rec["span_id"] != "1234000000000056" {
		t.Fatalf("span_id = %v", rec["span_id"])
	}
}

func TestLogger_SentinelWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	lg, err := New(Options{App: "test", JsonFormat: true, Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lg.Info(context.Background(), "hello")

	rec := decodeOneRecord(t, &buf)
	if rec["trace_id"] != ZeroTraceID {
		t.Fatalf("trace_id = %v, want sentinel", rec["trace_id"])
	}
	if rec["span_id"] != ZeroSpanID {
		t.Fatalf("span_id = %v, want sentinel", rec["span_id"])
	}
}

func TestInstallGlobal_DefaultSlogCorrelated(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	_, err := New(Options{App: "test", JsonFormat: true, Writer: &buf, InstallGlobal: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, span := recordingSpanContext(t)
	defer span.End()

	slog.InfoContext(ctx, "via default sink")

	rec := decodeOneRecord(t, &buf)
	if rec["trace_id"] != "abcd00000000000000000000000000ef" {
		t.Fatalf("default sink trace_id = %v", rec["trace_id"])
	}
}
