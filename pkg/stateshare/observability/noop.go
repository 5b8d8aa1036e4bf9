package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordInstanceCreated does nothing.
func (NoopMetrics) RecordInstanceCreated(_ context.Context, _ string) {}

// RecordInstanceDeleted does nothing.
func (NoopMetrics) RecordInstanceDeleted(_ context.Context, _ string) {}

// RecordSubscribed does nothing.
func (NoopMetrics) RecordSubscribed(_ context.Context, _ string) {}

// RecordUnsubscribed does nothing.
func (NoopMetrics) RecordUnsubscribed(_ context.Context, _ string) {}

// RecordUpdate does nothing.
func (NoopMetrics) RecordUpdate(_ context.Context, _ string, _ int, _ bool) {}

// RecordDeleteBlocked does nothing.
func (NoopMetrics) RecordDeleteBlocked(_ context.Context, _ string) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartUpdateSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartUpdateSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndUpdateSpan does nothing.
func (NoopSpanManager) EndUpdateSpan(_ trace.Span, _ int, _ bool) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
