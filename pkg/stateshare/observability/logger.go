// Package observability provides logging, metrics, and tracing for the
// stateshare handler registry.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds handler context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "app.CartHandler", instanceID)
//	enriched.Info("checkout") // includes handler and instance_id
func EnrichLogger(logger *slog.Logger, handler, instanceID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("handler", handler),
		slog.String("instance_id", instanceID),
	)
}

// LogInstanceCreated logs construction of a handler instance.
func LogInstanceCreated(logger *slog.Logger, handler, instanceID string) {
	if logger == nil {
		return
	}
	logger.Debug("handler instance created",
		slog.String("handler", handler),
		slog.String("instance_id", instanceID),
	)
}

// LogInstanceDeleted logs removal of a handler instance from the registry.
func LogInstanceDeleted(logger *slog.Logger, handler, instanceID string) {
	if logger == nil {
		return
	}
	logger.Debug("handler instance deleted",
		slog.String("handler", handler),
		slog.String("instance_id", instanceID),
	)
}

// LogDeleteBlocked logs a delete request refused because listeners remain.
func LogDeleteBlocked(logger *slog.Logger, handler, instanceID string, subscribers int) {
	if logger == nil {
		return
	}
	logger.Warn("handler instance not deleted: listeners remain",
		slog.String("handler", handler),
		slog.String("instance_id", instanceID),
		slog.Int("subscribers", subscribers),
	)
}

// LogSubscribed logs a listener attaching to a handler.
func LogSubscribed(logger *slog.Logger, handler, subscriptionID string, subscribers int) {
	if logger == nil {
		return
	}
	logger.Debug("listener subscribed",
		slog.String("handler", handler),
		slog.String("subscription_id", subscriptionID),
		slog.Int("subscribers", subscribers),
	)
}

// LogUnsubscribed logs a listener detaching from a handler.
func LogUnsubscribed(logger *slog.Logger, handler, subscriptionID string, subscribers int) {
	if logger == nil {
		return
	}
	logger.Debug("listener unsubscribed",
		slog.String("handler", handler),
		slog.String("subscription_id", subscriptionID),
		slog.Int("subscribers", subscribers),
	)
}

// LogUpdateDropped logs a state update on a handler that has no live record.
func LogUpdateDropped(logger *slog.Logger, handler string) {
	if logger == nil {
		return
	}
	logger.Debug("state update dropped: handler not registered",
		slog.String("handler", handler),
	)
}
