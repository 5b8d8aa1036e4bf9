// Package component is an in-process stateshare.Host.
//
// A Component renders by calling its render function with itself as the
// Host. Slots are matched to calls by order, so a render function must ask
// for the same slots in the same order every time. Setting a slot on a
// mounted component re-renders it synchronously; a Set during a render marks
// the component dirty and it renders again once the current pass returns.
//
//	c := component.New(func(host stateshare.Host) {
//	    state, _ := stateshare.UseStateHandler[CounterHandler, Counter](reg, host)
//	    fmt.Println("count:", state.N)
//	})
//	c.Mount()
//	defer c.Unmount()
package component
