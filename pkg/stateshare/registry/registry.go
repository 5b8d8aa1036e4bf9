package registry

import "sync"

// Registry is a thread-safe store of values indexed by key.
// It uses sync.RWMutex for read-heavy workloads.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	pending map[K]chan struct{}
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
		pending: make(map[K]chan struct{}),
	}
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// DeleteIf removes key if it is present and pred reports true for its
// current value. It returns the value that was removed.
//
// pred runs under the write lock and must not call back into the registry.
func (r *Registry[K, V]) DeleteIf(key K, pred func(V) bool) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[key]
	if !ok || !pred(v) {
		var zero V
		return zero, false
	}
	delete(r.entries, key)
	return v, true
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over a snapshot of the registry. If fn returns false,
// iteration stops.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// Reset removes every entry and returns the removed values.
// Factories still in flight complete and store their result afterwards.
func (r *Registry[K, V]) Reset() []V {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := make([]V, 0, len(r.entries))
	for _, v := range r.entries {
		removed = append(removed, v)
	}
	r.entries = make(map[K]V)
	return removed
}

// GetOrCreate returns the value for key, creating it with factory if it
// doesn't exist. created reports whether this call ran the factory.
//
// The factory is called at most once per key while the key is present,
// even under concurrent access, and runs without the lock held. The factory
// may call GetOrCreate for other keys; calling it for key itself waits for
// its own result and never returns.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) (v V, created bool) {
	if v, ok := r.Get(key); ok {
		return v, false
	}
	for {
		r.mu.Lock()
		if v, ok := r.entries[key]; ok {
			r.mu.Unlock()
			return v, false
		}
		wait, inFlight := r.pending[key]
		if !inFlight {
			done := make(chan struct{})
			r.pending[key] = done
			r.mu.Unlock()
			return r.create(key, done, factory), true
		}
		r.mu.Unlock()

		// Another caller is building this key; retry once it lands.
		<-wait
	}
}

func (r *Registry[K, V]) create(key K, done chan struct{}, factory func() V) (v V) {
	defer func() {
		r.mu.Lock()
		delete(r.pending, key)
		r.mu.Unlock()
		close(done)
	}()

	v = factory()

	r.mu.Lock()
	r.entries[key] = v
	r.mu.Unlock()
	return v
}
