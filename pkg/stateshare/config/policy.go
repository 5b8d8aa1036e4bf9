package config

// Configuration keys read by stateshare.
const (
	KeyHandlers         = "handlers"
	KeyMetrics          = "metrics"
	KeyTracing          = "tracing"
	KeyMerge            = "merge"
	KeyDestroyOnUnmount = "destroy_on_unmount"
)

// Policy overrides a handler's own configuration. A nil field leaves the
// handler's setting unchanged.
type Policy struct {
	Merge            *bool
	DestroyOnUnmount *bool
}

// IsZero reports whether the policy overrides nothing.
func (p Policy) IsZero() bool {
	return p.Merge == nil && p.DestroyOnUnmount == nil
}

// Apply returns merge and destroyOnUnmount with the policy's overrides applied.
func (p Policy) Apply(merge, destroyOnUnmount bool) (bool, bool) {
	if p.Merge != nil {
		merge = *p.Merge
	}
	if p.DestroyOnUnmount != nil {
		destroyOnUnmount = *p.DestroyOnUnmount
	}
	return merge, destroyOnUnmount
}

// Policies returns the handler overrides under the "handlers" key, keyed by
// handler name. Entries that override nothing are skipped.
func (c Config) Policies() map[string]Policy {
	handlers := c.Sub(KeyHandlers)
	policies := make(map[string]Policy)
	for _, name := range handlers.Keys() {
		p := handlers.Sub(name).policy()
		if p.IsZero() {
			continue
		}
		policies[name] = p
	}
	return policies
}

func (c Config) policy() Policy {
	var p Policy
	if b, ok := c.data[KeyMerge].(bool); ok {
		p.Merge = &b
	}
	if b, ok := c.data[KeyDestroyOnUnmount].(bool); ok {
		p.DestroyOnUnmount = &b
	}
	return p
}
