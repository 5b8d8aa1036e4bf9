package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("stateshare")

// SpanManager handles trace span lifecycle for state updates.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartUpdateSpan starts a span covering one state update and its fan-out.
	StartUpdateSpan(ctx context.Context, handler, instanceID string) (context.Context, trace.Span)

	// EndUpdateSpan records the fan-out size and completes the span.
	EndUpdateSpan(span trace.Span, listeners int, merged bool)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// Configure the global tracer provider before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartUpdateSpan starts a span for a state update.
func (m *otelSpanManager) StartUpdateSpan(ctx context.Context, handler, instanceID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "stateshare.update",
		trace.WithAttributes(
			attribute.String("handler.name", handler),
			attribute.String("handler.instance_id", instanceID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndUpdateSpan completes an update span.
func (m *otelSpanManager) EndUpdateSpan(span trace.Span, listeners int, merged bool) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.Int("fanout.listeners", listeners),
		attribute.Bool("update.merged", merged),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
