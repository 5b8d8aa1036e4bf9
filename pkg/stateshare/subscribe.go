package stateshare

// Subscribe attaches fn to H's instance, building the instance if needed,
// and returns the instance with the subscription. fn is called after every
// update with the new state, in subscription order. Unsubscribe detaches it;
// for handlers with DestroyOnUnmount the last detach deletes the instance.
//
//	h, sub := stateshare.Subscribe[CounterHandler](reg, func(c Counter) {
//	    fmt.Println("count:", c.N)
//	})
//	defer sub.Unsubscribe()
func Subscribe[H any, T any, PH handlerPtr[H, T]](r *Registry, fn Listener[T]) (PH, *Subscription) {
	h := GetExisting[H, T, PH](r)
	return h, h.core().rec.attach(deliverTo(fn))
}

// SubscribeSelective is Subscribe with fn wrapped by Selective, starting
// from the instance's current state.
func SubscribeSelective[H any, T any, PH handlerPtr[H, T]](r *Registry, f Filter[T], fn Listener[T]) (PH, *Subscription) {
	h := GetExisting[H, T, PH](r)
	return h, h.core().rec.attach(deliverTo(Selective(f, h.core().State(), fn)))
}
