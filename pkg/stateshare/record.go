package stateshare

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/stateshare/pkg/stateshare/observability"
)

// observers bundles the logging, metrics and tracing a record reports to.
type observers struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// localObservers serve records that live outside any registry.
var localObservers = &observers{
	metrics: observability.NoopMetrics{},
	spans:   observability.NoopSpanManager{},
}

func (o *observers) dropped(name string) {
	observability.LogUpdateDropped(o.logger, name)
}

var discardLogger = slog.New(slog.DiscardHandler)

// record is the registry entry for one handler type during one epoch.
type record struct {
	key      reflect.Type
	name     string
	id       string
	reg      *Registry // nil for consumer-local handlers
	obs      *observers
	logger   *slog.Logger // obs.logger with handler and instance_id
	instance any
	cfg      Config

	subs     []*Subscription
	attached bool // a listener has attached at least once
	deleted  bool
}

func newRecord(reg *Registry, key reflect.Type, instance any) *record {
	name := typeName(key)
	rec := &record{
		key:      key,
		name:     name,
		id:       uuid.NewString(),
		reg:      reg,
		obs:      localObservers,
		instance: instance,
	}
	if c, ok := instance.(Configurable); ok {
		rec.cfg = c.HandlerConfig()
	}
	if reg != nil {
		rec.obs = reg.obs
		if p, ok := reg.policies[name]; ok {
			rec.cfg.Merge, rec.cfg.DestroyOnUnmount = p.Apply(rec.cfg.Merge, rec.cfg.DestroyOnUnmount)
		}
	}
	rec.logger = observability.EnrichLogger(rec.obs.logger, name, rec.id)
	if rec.logger == nil {
		rec.logger = discardLogger
	}
	return rec
}

// attach appends a listener. The first attach of the epoch runs the
// instance's InstanceCreated callback; consumer-local records never do.
func (rec *record) attach(deliver func(any)) *Subscription {
	sub := &Subscription{
		id:      uuid.NewString(),
		rec:     rec,
		deliver: deliver,
		active:  true,
	}

	first := !rec.attached
	rec.attached = true
	rec.subs = append(rec.subs, sub)

	rec.obs.metrics.RecordSubscribed(context.Background(), rec.name)
	observability.LogSubscribed(rec.obs.logger, rec.name, sub.id, len(rec.subs))

	if first && rec.reg != nil {
		if c, ok := rec.instance.(Creator); ok {
			c.InstanceCreated()
		}
	}
	return sub
}

// detach removes sub. When the list empties and the handler destroys on
// unmount, the record is deleted.
func (rec *record) detach(sub *Subscription) {
	i := slices.Index(rec.subs, sub)
	if i < 0 {
		return
	}
	rec.subs = slices.Delete(rec.subs, i, i+1)

	rec.obs.metrics.RecordUnsubscribed(context.Background(), rec.name)
	observability.LogUnsubscribed(rec.obs.logger, rec.name, sub.id, len(rec.subs))

	if len(rec.subs) == 0 && rec.cfg.DestroyOnUnmount && rec.reg != nil {
		_ = rec.reg.delete(rec)
	}
}

// notify delivers state to a snapshot of the listeners in subscription
// order, adding a span event per listener. Listeners detached by an earlier
// listener in the same pass are skipped. It returns the number of listeners
// called.
func (rec *record) notify(ctx context.Context, state any) int {
	subs := slices.Clone(rec.subs)
	n := 0
	for _, sub := range subs {
		if !sub.active {
			continue
		}
		rec.obs.spans.AddSpanEvent(ctx, "listener.notified",
			attribute.String("subscription.id", sub.id),
			attribute.Int("listener.index", n),
		)
		sub.deliver(state)
		n++
	}
	return n
}

// Subscription is one attached listener. Unsubscribe detaches it.
type Subscription struct {
	id      string
	rec     *record
	deliver func(any)
	active  bool
}

// ID returns the subscription's unique id.
func (s *Subscription) ID() string {
	return s.id
}

// Active reports whether the listener is still attached.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Unsubscribe detaches the listener. Calling it again, or after the
// handler was deleted, does nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	s.rec.detach(s)
}

// deliverTo adapts a typed listener to the record's untyped fan-out.
func deliverTo[T any](fn Listener[T]) func(any) {
	return func(v any) {
		state, _ := v.(T)
		fn(state)
	}
}
