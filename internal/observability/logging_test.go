package observability

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type testHandler struct {
	enabled    bool
	handleErr  error
	lastRecord slog.Record
	handled    int
	attrs      []slog.Attr
}

func (h *testHandler) Enabled(context.Context, slog.Level) bool { return h.enabled }

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	h.handled++
	h.lastRecord = r
	return h.handleErr
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *testHandler) WithGroup(string) slog.Handler {
	next := *h
	return &next
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"WARN":  slog.LevelWarn,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	h1 := &testHandler{enabled: false}
	h2 := &testHandler{enabled: true}
	mh := NewMultiHandler(h1, h2)

	if !mh.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected enabled when one child is enabled")
	}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	if err := mh.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if h1.handled != 1 || h2.handled != 1 {
		t.Fatalf("expected both handlers invoked, got h1=%d h2=%d", h1.handled, h2.handled)
	}
}

func TestTraceContextHandlerAddsTraceFields(t *testing.T) {
	inner := &testHandler{enabled: true}
	h := &traceContextHandler{next: inner}

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("handle without span: %v", err)
	}
	if countAttrs(inner.lastRecord) != 0 {
		t.Fatal("expected no trace attrs outside a span")
	}

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:  trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	rec = slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	if err := h.Handle(ctx, rec); err != nil {
		t.Fatalf("handle with span: %v", err)
	}

	var haveTrace, haveSpan bool
	inner.lastRecord.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "trace_id":
			haveTrace = true
		case "span_id":
			haveSpan = true
		}
		return true
	})
	if !haveTrace || !haveSpan {
		t.Fatal("expected trace_id and span_id attrs inside a span")
	}
}

func countAttrs(r slog.Record) int {
	n := 0
	r.Attrs(func(slog.Attr) bool {
		n++
		return true
	})
	return n
}
