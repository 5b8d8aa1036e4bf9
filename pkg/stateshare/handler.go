package stateshare

import (
	"context"
	"log/slog"
)

// Listener receives the resolved state after every update.
type Listener[T any] func(state T)

// Config is a handler's fixed behaviour.
type Config struct {
	// Merge shallow-merges map states on update instead of replacing them.
	Merge bool

	// DestroyOnUnmount deletes the instance when its last listener detaches.
	DestroyOnUnmount bool
}

// Configurable handlers supply their own Config. Handlers that don't
// implement it get the zero Config.
type Configurable interface {
	HandlerConfig() Config
}

// Creator handlers are told when their first listener attaches.
type Creator interface {
	InstanceCreated()
}

// Deleter handlers are told after their instance leaves the registry.
type Deleter interface {
	InstanceDeleted()
}

// Defaulter handlers provide the state used when no initial value is given.
type Defaulter[T any] interface {
	DefaultState() T
}

// Initial is an initial state: either a value or a function producing one.
type Initial[T any] struct {
	value T
	fn    func() T
}

// Value returns an Initial holding v.
func Value[T any](v T) Initial[T] {
	return Initial[T]{value: v}
}

// Lazy returns an Initial that calls fn when the instance is built.
// fn is not called when the instance already exists.
func Lazy[T any](fn func() T) Initial[T] {
	return Initial[T]{fn: fn}
}

func (i Initial[T]) resolve() T {
	if i.fn != nil {
		return i.fn()
	}
	return i.value
}

// Handler holds one shared state value. Embed it by value in a struct; the
// embedding struct's type identifies the shared slot:
//
//	type CartHandler struct {
//	    stateshare.Handler[Cart]
//	}
//
//	func (h *CartHandler) Add(item Item) {
//	    h.UpdateState(func(c Cart) Cart { return c.With(item) })
//	}
//
// Handlers are not safe for concurrent use. Drive them from the goroutine
// that renders their consumers.
type Handler[T any] struct {
	state T
	ready bool
	rec   *record
}

// core exposes the embedded Handler to the generic entry points and seals
// handlerPtr to types that embed Handler.
func (h *Handler[T]) core() *Handler[T] {
	return h
}

// State returns the current state. All consumers share this value.
func (h *Handler[T]) State() T {
	return h.state
}

// Ready reports whether the instance has received a state value, either an
// initial value, a DefaultState, or an update.
func (h *Handler[T]) Ready() bool {
	return h.ready
}

// Name returns the handler's resolved "pkg.Type" name.
func (h *Handler[T]) Name() string {
	if h.rec == nil {
		return ""
	}
	return h.rec.name
}

// ID returns the id of the current instance. A handler type gets a new id
// each time it is rebuilt after deletion.
func (h *Handler[T]) ID() string {
	if h.rec == nil {
		return ""
	}
	return h.rec.id
}

// Config returns the effective configuration, policy overrides included.
func (h *Handler[T]) Config() Config {
	if h.rec == nil {
		return Config{}
	}
	return h.rec.cfg
}

// Logger returns the registry's logger with the handler name and instance
// id attached, for use in handler methods. It discards output when the
// handler is unbound or the registry has no logger.
func (h *Handler[T]) Logger() *slog.Logger {
	if h.rec == nil {
		return discardLogger
	}
	return h.rec.logger
}

// Live reports whether the instance is still bound to a record that
// accepts updates.
func (h *Handler[T]) Live() bool {
	return h.rec != nil && !h.rec.deleted
}

// SetState replaces (or, in merge mode, merges into) the state and notifies
// every listener in subscription order.
func (h *Handler[T]) SetState(next T) {
	h.SetStateContext(context.Background(), next)
}

// SetStateContext is SetState with a context for tracing.
func (h *Handler[T]) SetStateContext(ctx context.Context, next T) {
	if !h.Live() {
		h.dropUpdate()
		return
	}
	h.apply(ctx, next)
}

// UpdateState computes the next state from the current one and applies it
// like SetState.
func (h *Handler[T]) UpdateState(fn func(prev T) T) {
	h.UpdateStateContext(context.Background(), fn)
}

// UpdateStateContext is UpdateState with a context for tracing.
func (h *Handler[T]) UpdateStateContext(ctx context.Context, fn func(prev T) T) {
	if !h.Live() {
		h.dropUpdate()
		return
	}
	h.apply(ctx, fn(h.state))
}

// DestroyInstance removes the instance from its registry if no listeners
// remain. With listeners attached it logs a warning and does nothing.
func (h *Handler[T]) DestroyInstance() {
	if !h.Live() || h.rec.reg == nil {
		return
	}
	_ = h.rec.reg.delete(h.rec)
}

func (h *Handler[T]) apply(ctx context.Context, next T) {
	rec := h.rec
	obs := rec.obs

	ctx, span := obs.spans.StartUpdateSpan(ctx, rec.name, rec.id)

	merged := false
	if rec.cfg.Merge {
		next, merged = mergeState(h.state, next)
	}
	h.state = next
	h.ready = true

	notified := rec.notify(ctx, next)

	obs.metrics.RecordUpdate(ctx, rec.name, notified, merged)
	obs.spans.EndUpdateSpan(span, notified, merged)
}

func (h *Handler[T]) dropUpdate() {
	if h.rec == nil {
		return
	}
	h.rec.obs.dropped(h.rec.name)
}
