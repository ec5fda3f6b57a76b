package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/room-booking-grid/internal/config"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestInjectExtractRoundTrip(t *testing.T) {
	if _, err := Setup(context.Background(), config.TelemetryConfig{}); err != nil {
		t.Fatal(err)
	}
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := Inject(ctx)
	if headers["traceparent"] == "" {
		t.Fatalf("no traceparent in %v", headers)
	}
	got := trace.SpanContextFromContext(Extract(context.Background(), headers))
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Fatalf("trace id = %s, want %s", got.TraceID(), span.SpanContext().TraceID())
	}
	if !got.IsRemote() {
		t.Fatal("extracted span context should be remote")
	}
}

func TestInjectWithoutSpan(t *testing.T) {
	if h := Inject(context.Background()); len(h) != 0 {
		t.Fatalf("headers = %v, want none", h)
	}
	ctx := context.Background()
	if Extract(ctx, nil) != ctx {
		t.Fatal("Extract with no headers should return ctx unchanged")
	}
}
