package stateshare

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync/atomic"

	"github.com/randalmurphal/stateshare/pkg/stateshare/config"
	"github.com/randalmurphal/stateshare/pkg/stateshare/observability"
	"github.com/randalmurphal/stateshare/pkg/stateshare/registry"
)

// Registry holds at most one live instance per handler type, together with
// the listeners subscribed to it.
type Registry struct {
	records  *registry.Registry[reflect.Type, *record]
	obs      *observers
	policies map[string]config.Policy
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		records: registry.New[reflect.Type, *record](),
		obs: &observers{
			logger:  slog.Default(),
			metrics: observability.NoopMetrics{},
			spans:   observability.NoopSpanManager{},
		},
		policies: make(map[string]config.Policy),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry atomic.Pointer[Registry]

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	if r := defaultRegistry.Load(); r != nil {
		return r
	}
	defaultRegistry.CompareAndSwap(nil, NewRegistry())
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry. A nil r is ignored.
func SetDefault(r *Registry) {
	if r == nil {
		return
	}
	defaultRegistry.Store(r)
}

// handlerPtr is satisfied by *H when H embeds Handler[T].
type handlerPtr[H, T any] interface {
	*H
	core() *Handler[T]
}

func keyOf[H any]() reflect.Type {
	return reflect.TypeFor[H]()
}

// GetOrCreate returns the live instance of H, building it on first use.
//
// A new instance takes its state from init, or from DefaultState when the
// handler implements Defaulter and init is empty. On later calls init is
// ignored, unless the instance has never received a state value.
//
// The state type is inferred from init. Without init, name it:
//
//	cart := stateshare.GetOrCreate[CartHandler](reg, stateshare.Value(Cart{}))
//	cart = stateshare.GetOrCreate[CartHandler, Cart](reg)
//
// A Lazy initialiser or DefaultState may request other handler types, but
// not H itself: the inner call waits for the outer construction and never
// returns.
func GetOrCreate[H any, T any, PH handlerPtr[H, T]](r *Registry, init ...Initial[T]) PH {
	key := keyOf[H]()
	rec, created := r.records.GetOrCreate(key, func() *record {
		return build[H, T, PH](r, key, init)
	})
	h := rec.instance.(PH)

	if created {
		r.obs.metrics.RecordInstanceCreated(context.Background(), rec.name)
		observability.LogInstanceCreated(r.obs.logger, rec.name, rec.id)
		return h
	}

	if c := h.core(); !c.ready && len(init) > 0 {
		c.state = init[0].resolve()
		c.ready = true
	}
	return h
}

// GetExisting returns the live instance of H. When none exists it builds
// one without an initial value; the next GetOrCreate with a value will
// initialise it.
//
//	cart := stateshare.GetExisting[CartHandler, Cart](reg)
func GetExisting[H any, T any, PH handlerPtr[H, T]](r *Registry) PH {
	return GetOrCreate[H, T, PH](r)
}

// Lookup returns the live instance of H without creating one.
//
//	if cart, ok := stateshare.Lookup[CartHandler, Cart](reg); ok {
//	    cart.SetState(Cart{})
//	}
func Lookup[H any, T any, PH handlerPtr[H, T]](r *Registry) (PH, bool) {
	rec, ok := r.records.Get(keyOf[H]())
	if !ok {
		return nil, false
	}
	return rec.instance.(PH), true
}

// Has reports whether H has a live instance.
func Has[H any](r *Registry) bool {
	return r.records.Has(keyOf[H]())
}

// Delete removes H's instance if it has no listeners and runs its
// InstanceDeleted callback. With listeners attached it logs a warning and
// does nothing. Deleting an unknown type does nothing.
func Delete[H any](r *Registry) {
	_ = TryDelete[H](r)
}

// TryDelete is Delete reporting why nothing was removed: ErrNotRegistered
// or ErrListenersRemain.
func TryDelete[H any](r *Registry) error {
	rec, ok := r.records.Get(keyOf[H]())
	if !ok {
		return ErrNotRegistered
	}
	return r.delete(rec)
}

// build constructs a fresh instance of H bound to a new record.
func build[H any, T any, PH handlerPtr[H, T]](r *Registry, key reflect.Type, init []Initial[T]) *record {
	h := newInstance[H, T, PH](init)
	c := h.core()
	c.rec = newRecord(r, key, h)
	return c.rec
}

// newInstance allocates H and gives it its initial state: init when given,
// otherwise DefaultState when H is a Defaulter.
func newInstance[H any, T any, PH handlerPtr[H, T]](init []Initial[T]) PH {
	h := PH(new(H))
	c := h.core()
	if len(init) > 0 {
		c.state = init[0].resolve()
		c.ready = true
	} else if d, ok := any(h).(Defaulter[T]); ok {
		c.state = d.DefaultState()
		c.ready = true
	}
	return h
}

// delete removes rec if it is still the live record for its type and has
// no listeners.
func (r *Registry) delete(rec *record) error {
	_, removed := r.records.DeleteIf(rec.key, func(cur *record) bool {
		return cur == rec && len(cur.subs) == 0
	})
	if !removed {
		if rec.deleted {
			return ErrNotRegistered
		}
		r.obs.metrics.RecordDeleteBlocked(context.Background(), rec.name)
		observability.LogDeleteBlocked(r.obs.logger, rec.name, rec.id, len(rec.subs))
		return ErrListenersRemain
	}

	rec.deleted = true
	r.obs.metrics.RecordInstanceDeleted(context.Background(), rec.name)
	observability.LogInstanceDeleted(r.obs.logger, rec.name, rec.id)

	if d, ok := rec.instance.(Deleter); ok {
		d.InstanceDeleted()
	}
	return nil
}

// Reset drops every instance and detaches every listener without running
// InstanceDeleted callbacks. It exists for test isolation.
func (r *Registry) Reset() {
	for _, rec := range r.records.Reset() {
		rec.deleted = true
		for _, sub := range rec.subs {
			sub.active = false
		}
		rec.subs = nil
	}
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	return r.records.Len()
}

// Entry describes one live instance.
type Entry struct {
	// Type is the handler type.
	Type reflect.Type
	// Name is the resolved "pkg.Type" name.
	Name string
	// ID identifies the instance.
	ID string
	// Subscribers is the number of attached listeners.
	Subscribers int
	// Config is the effective configuration.
	Config Config
}

// Entries returns a snapshot of the live instances sorted by name.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, r.records.Len())
	r.records.Range(func(key reflect.Type, rec *record) bool {
		entries = append(entries, Entry{
			Type:        key,
			Name:        rec.name,
			ID:          rec.id,
			Subscribers: len(rec.subs),
			Config:      rec.cfg,
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}
