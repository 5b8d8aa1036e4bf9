package stateshare

import (
	"log/slog"

	"github.com/randalmurphal/stateshare/pkg/stateshare/config"
	"github.com/randalmurphal/stateshare/pkg/stateshare/observability"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Default: slog.Default().
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.obs.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: observability.NoopMetrics.
//
// Example:
//
//	reg := stateshare.NewRegistry(
//	    stateshare.WithMetrics(observability.NewMetricsRecorder()),
//	)
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(r *Registry) {
		if m != nil {
			r.obs.metrics = m
		}
	}
}

// WithSpanManager sets the tracer used for update spans.
// Default: observability.NoopSpanManager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(r *Registry) {
		if s != nil {
			r.obs.spans = s
		}
	}
}

// WithPolicy overrides the configuration of the handler named name
// ("pkg.Type"). Overrides apply when an instance is built.
func WithPolicy(name string, p config.Policy) Option {
	return func(r *Registry) {
		r.policies[name] = p
	}
}

// WithConfig applies a loaded configuration: handler policies, plus OTel
// metrics and tracing when the "metrics" and "tracing" keys are true.
//
//	cfg, err := config.FromFile("stateshare.yaml")
//	if err != nil {
//	    return err
//	}
//	reg := stateshare.NewRegistry(stateshare.WithConfig(cfg))
func WithConfig(cfg config.Config) Option {
	return func(r *Registry) {
		for name, p := range cfg.Policies() {
			r.policies[name] = p
		}
		if cfg.Bool(config.KeyMetrics, false) {
			r.obs.metrics = observability.NewMetricsRecorder()
		}
		if cfg.Bool(config.KeyTracing, false) {
			r.obs.spans = observability.NewSpanManager()
		}
	}
}
