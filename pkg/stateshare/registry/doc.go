// Package registry provides a generic keyed store for lazily created values.
//
// Registry backs the stateshare handler table, but it knows nothing about
// handlers: it maps any comparable key to any value and guarantees that a
// value is constructed at most once per key while it is present.
//
// # Basic Usage
//
//	r := registry.New[string, *Pool]()
//
//	pool, created := r.GetOrCreate("users_db", func() *Pool {
//	    return NewPool("users_db")
//	})
//
// # Re-entrant Construction
//
// The factory passed to GetOrCreate runs without the registry lock held, so
// a factory may itself call GetOrCreate for a different key:
//
//	a, _ := r.GetOrCreate("a", func() *Node {
//	    b, _ := r.GetOrCreate("b", newLeaf) // fine
//	    return &Node{Child: b}
//	})
//
// Concurrent callers for the same key wait for the in-flight factory and
// receive its result. A factory that requests its own key never completes.
//
// # Conditional Removal
//
// DeleteIf removes an entry only when a predicate over the current value
// holds, evaluated under the write lock:
//
//	r.DeleteIf("a", func(n *Node) bool { return n.Refs == 0 })
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Range iterates over a
// snapshot, so it is safe to mutate the registry from inside the callback.
package registry
