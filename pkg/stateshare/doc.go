/*
Package stateshare shares one piece of state between many independent
consumers through a handler type.

# Overview

A handler is a struct that embeds Handler[T]. The struct's type names one
shared slot: a Registry keeps at most one live instance per handler type,
hands it to every consumer that asks, and fans out each update to every
subscribed listener synchronously, in subscription order.

	type Counter struct {
	    N int
	}

	type CounterHandler struct {
	    stateshare.Handler[Counter]
	}

	func (h *CounterHandler) Increment() {
	    h.UpdateState(func(c Counter) Counter {
	        c.N++
	        return c
	    })
	}

	reg := stateshare.NewRegistry()
	h, sub := stateshare.Subscribe[CounterHandler](reg, func(c Counter) {
	    fmt.Println("count:", c.N)
	})
	h.Increment() // count: 1
	sub.Unsubscribe()

# Lifecycle

GetOrCreate builds an instance the first time a handler type is requested
and returns the same instance until it is deleted. An instance is deleted
either explicitly (Delete, DestroyInstance) or, for handlers whose Config
sets DestroyOnUnmount, when its last listener detaches. Deletion is refused
with a warning while listeners remain. The next request after a deletion
builds a fresh instance.

Handlers opt into callbacks by implementing Creator (run when the first
listener attaches) and Deleter (run after removal from the registry).

# Updates

SetState and UpdateState store the new state and call every listener with
it. With Config.Merge, map states are shallow-merged instead of replaced, and
states implementing Merger merge themselves. Updates on a deleted instance
are dropped.

# Selective subscriptions

Keys, Selector and Comparator build Filters that suppress notifications
unrelated to a listener. SubscribeSelective and UsePartialHandler attach a
filtered listener.

# Hosts

UseStateHandler, UsePartialHandler, UseSelector and UseHandler connect
handlers to a rendering framework through the Host interface. Package
component provides an in-process Host.

# Concurrency

The Registry map is safe for concurrent use, but handlers are not: state
changes and fan-out run on the caller's goroutine without locking. Drive a
handler and its consumers from one goroutine.

# Observability

Registries log lifecycle events through log/slog and can record OTel
metrics and update spans:

	reg := stateshare.NewRegistry(
	    stateshare.WithLogger(logger),
	    stateshare.WithMetrics(observability.NewMetricsRecorder()),
	    stateshare.WithSpanManager(observability.NewSpanManager()),
	)
*/
package stateshare
