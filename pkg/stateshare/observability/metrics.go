package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records handler registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInstanceCreated records construction of a handler instance.
	RecordInstanceCreated(ctx context.Context, handler string)

	// RecordInstanceDeleted records removal of a handler instance.
	RecordInstanceDeleted(ctx context.Context, handler string)

	// RecordSubscribed records a listener attaching.
	RecordSubscribed(ctx context.Context, handler string)

	// RecordUnsubscribed records a listener detaching.
	RecordUnsubscribed(ctx context.Context, handler string)

	// RecordUpdate records a state update and the number of listeners notified.
	RecordUpdate(ctx context.Context, handler string, listeners int, merged bool)

	// RecordDeleteBlocked records a delete refused because listeners remain.
	RecordDeleteBlocked(ctx context.Context, handler string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	created       metric.Int64Counter
	deleted       metric.Int64Counter
	subscribers   metric.Int64UpDownCounter
	updates       metric.Int64Counter
	notifications metric.Int64Counter
	fanout        metric.Int64Histogram
	blocked       metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily builds the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("stateshare")

	created, err := meter.Int64Counter("stateshare.instances.created",
		metric.WithDescription("Number of handler instances constructed"),
	)
	if err != nil {
		return nil, err
	}

	deleted, err := meter.Int64Counter("stateshare.instances.deleted",
		metric.WithDescription("Number of handler instances removed from the registry"),
	)
	if err != nil {
		return nil, err
	}

	subscribers, err := meter.Int64UpDownCounter("stateshare.subscribers",
		metric.WithDescription("Currently attached listeners"),
	)
	if err != nil {
		return nil, err
	}

	updates, err := meter.Int64Counter("stateshare.updates",
		metric.WithDescription("Number of state updates"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("stateshare.notifications",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	fanout, err := meter.Int64Histogram("stateshare.fanout.size",
		metric.WithDescription("Listeners notified per update"),
	)
	if err != nil {
		return nil, err
	}

	blocked, err := meter.Int64Counter("stateshare.delete.blocked",
		metric.WithDescription("Delete requests refused because listeners remain"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		created:       created,
		deleted:       deleted,
		subscribers:   subscribers,
		updates:       updates,
		notifications: notifications,
		fanout:        fanout,
		blocked:       blocked,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func handlerAttr(handler string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("handler", handler))
}

// RecordInstanceCreated records construction of a handler instance.
func (m *otelMetrics) RecordInstanceCreated(ctx context.Context, handler string) {
	m.created.Add(ctx, 1, handlerAttr(handler))
}

// RecordInstanceDeleted records removal of a handler instance.
func (m *otelMetrics) RecordInstanceDeleted(ctx context.Context, handler string) {
	m.deleted.Add(ctx, 1, handlerAttr(handler))
}

// RecordSubscribed records a listener attaching.
func (m *otelMetrics) RecordSubscribed(ctx context.Context, handler string) {
	m.subscribers.Add(ctx, 1, handlerAttr(handler))
}

// RecordUnsubscribed records a listener detaching.
func (m *otelMetrics) RecordUnsubscribed(ctx context.Context, handler string) {
	m.subscribers.Add(ctx, -1, handlerAttr(handler))
}

// RecordUpdate records a state update.
func (m *otelMetrics) RecordUpdate(ctx context.Context, handler string, listeners int, merged bool) {
	m.updates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("handler", handler),
		attribute.Bool("merged", merged),
	))
	m.notifications.Add(ctx, int64(listeners), handlerAttr(handler))
	m.fanout.Record(ctx, int64(listeners), handlerAttr(handler))
}

// RecordDeleteBlocked records a refused delete.
func (m *otelMetrics) RecordDeleteBlocked(ctx context.Context, handler string) {
	m.blocked.Add(ctx, 1, handlerAttr(handler))
}
