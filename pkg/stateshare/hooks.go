package stateshare

// Slot is one piece of consumer-local state owned by a Host. Set stores a
// value and schedules the consumer's re-render.
type Slot interface {
	Get() any
	Set(v any)
}

// Host is the rendering framework a consumer runs in.
//
// Slot returns the consumer's next slot in call order, calling init only on
// the consumer's first render. OnAttach registers fn to run once after the
// first render; the cleanup fn returns runs once when the consumer is torn
// down. Hosts ignore OnAttach on later renders.
type Host interface {
	Slot(init func() any) Slot
	OnAttach(fn func() func())
}

// UseStateHandler returns the shared state and instance of H and subscribes
// the consumer: every update re-renders it.
//
//	func (v *CounterView) Render(host stateshare.Host) string {
//	    state, h := stateshare.UseStateHandler[CounterHandler](v.reg, host, stateshare.Value(Counter{}))
//	    v.inc = h.Increment
//	    return fmt.Sprintf("count: %d", state.N)
//	}
func UseStateHandler[H any, T any, PH handlerPtr[H, T]](r *Registry, host Host, init ...Initial[T]) (T, PH) {
	h := GetOrCreate[H, T, PH](r, init...)
	c := h.core()
	slot := host.Slot(func() any { return c.State() })

	host.OnAttach(func() func() {
		sub := c.rec.attach(deliverTo(func(s T) { slot.Set(s) }))
		return sub.Unsubscribe
	})
	return c.State(), h
}

// UsePartialHandler is UseStateHandler that re-renders the consumer only
// when f reports a change.
func UsePartialHandler[H any, T any, PH handlerPtr[H, T]](r *Registry, host Host, f Filter[T], init ...Initial[T]) (T, PH) {
	h := GetOrCreate[H, T, PH](r, init...)
	c := h.core()
	slot := host.Slot(func() any { return c.State() })

	host.OnAttach(func() func() {
		listener := Selective(f, c.State(), func(s T) { slot.Set(s) })
		sub := c.rec.attach(deliverTo(listener))
		return sub.Unsubscribe
	})
	return c.State(), h
}

// UseSelector returns sel applied to the shared state of H. The consumer
// re-renders only when the selected value changes; see Selector.
func UseSelector[H any, T any, F any, PH handlerPtr[H, T]](r *Registry, host Host, sel func(T) F, init ...Initial[T]) (F, PH) {
	state, h := UsePartialHandler[H, T, PH](r, host, Selector(sel), init...)
	return sel(state), h
}

// GetHandler returns the shared instance of H without subscribing. Use it
// in consumers that only call update methods.
//
//	cart := stateshare.GetHandler[CartHandler, Cart](reg)
func GetHandler[H any, T any, PH handlerPtr[H, T]](r *Registry) PH {
	return GetExisting[H, T, PH](r)
}

// UseHandler returns a handler owned by this consumer alone. It is not
// registered, is never shared, and only re-renders its own consumer.
// InstanceCreated and InstanceDeleted are not called.
func UseHandler[H any, T any, PH handlerPtr[H, T]](host Host, init ...Initial[T]) (T, PH) {
	hs := host.Slot(func() any {
		return buildLocal[H, T, PH](init)
	})
	h := hs.Get().(PH)
	c := h.core()
	slot := host.Slot(func() any { return c.State() })

	host.OnAttach(func() func() {
		sub := c.rec.attach(deliverTo(func(s T) { slot.Set(s) }))
		return sub.Unsubscribe
	})
	return c.State(), h
}

func buildLocal[H any, T any, PH handlerPtr[H, T]](init []Initial[T]) PH {
	h := newInstance[H, T, PH](init)
	h.core().rec = newRecord(nil, keyOf[H](), h)
	return h
}
