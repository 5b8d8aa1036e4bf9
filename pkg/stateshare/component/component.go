package component

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/stateshare/pkg/stateshare"
)

// maxRerenders bounds the renders triggered by Sets made during a render.
const maxRerenders = 100

// RenderFunc draws a component. It must call Slot and OnAttach in the same
// order on every render.
type RenderFunc func(host stateshare.Host)

// Component hosts one consumer.
type Component struct {
	id     string
	render RenderFunc
	logger *slog.Logger

	slots    []*slot
	cursor   int
	effects  []func() func()
	cleanups []func()

	renders   int
	rendering bool
	dirty     bool
	mounted   bool
	unmounted bool
}

// Option configures a Component.
type Option func(*Component)

// WithLogger sets the logger used for render diagnostics.
// Default: nil (no logging).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		c.logger = logger
	}
}

// WithID sets the component's id. Default: a random uuid.
func WithID(id string) Option {
	return func(c *Component) {
		c.id = id
	}
}

// New creates an unmounted component.
func New(render RenderFunc, opts ...Option) *Component {
	c := &Component{
		id:     uuid.NewString(),
		render: render,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the component's id.
func (c *Component) ID() string {
	return c.id
}

// Mount renders the component for the first time and then runs the
// functions registered with OnAttach, in registration order. Mounting
// twice, or after Unmount, does nothing.
func (c *Component) Mount() {
	if c.mounted || c.unmounted {
		return
	}
	c.renderNow()
	c.mounted = true

	effects := c.effects
	c.effects = nil
	for _, fn := range effects {
		if cleanup := fn(); cleanup != nil {
			c.cleanups = append(c.cleanups, cleanup)
		}
	}
	if c.dirty {
		c.renderNow()
	}
}

// Unmount runs the attach cleanups in reverse order. Later Sets on the
// component's slots are ignored.
func (c *Component) Unmount() {
	if !c.mounted || c.unmounted {
		return
	}
	c.unmounted = true
	c.mounted = false

	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil

	if c.logger != nil {
		c.logger.Debug("component unmounted",
			slog.String("component_id", c.id),
			slog.Int("renders", c.renders),
		)
	}
}

// Rerender renders a mounted component again.
func (c *Component) Rerender() {
	if !c.mounted {
		return
	}
	c.renderNow()
}

// Renders returns how many times the component has rendered.
func (c *Component) Renders() int {
	return c.renders
}

// Mounted reports whether the component is mounted.
func (c *Component) Mounted() bool {
	return c.mounted
}

// Slot implements stateshare.Host.
func (c *Component) Slot(init func() any) stateshare.Slot {
	if c.cursor < len(c.slots) {
		s := c.slots[c.cursor]
		c.cursor++
		return s
	}

	s := &slot{owner: c}
	if init != nil {
		s.value = init()
	}
	c.slots = append(c.slots, s)
	c.cursor++
	return s
}

// OnAttach implements stateshare.Host. Only calls made during the first
// render are kept.
func (c *Component) OnAttach(fn func() func()) {
	if c.renders > 1 || c.mounted || c.unmounted {
		return
	}
	c.effects = append(c.effects, fn)
}

func (c *Component) renderNow() {
	if c.rendering {
		c.dirty = true
		return
	}
	c.rendering = true
	defer func() { c.rendering = false }()

	for range maxRerenders {
		c.dirty = false
		c.cursor = 0
		c.renders++
		c.render(c)
		if !c.dirty || !c.mounted {
			return
		}
	}

	if c.logger != nil {
		c.logger.Warn("component render loop stopped",
			slog.String("component_id", c.id),
			slog.Int("limit", maxRerenders),
		)
	}
}

// invalidate is called when a slot changes.
func (c *Component) invalidate() {
	switch {
	case c.unmounted:
	case c.rendering:
		c.dirty = true
	case c.mounted:
		c.renderNow()
	default:
		// Set between the first render and attach; render once mounted.
		c.dirty = true
	}
}

type slot struct {
	owner *Component
	value any
}

func (s *slot) Get() any {
	return s.value
}

func (s *slot) Set(v any) {
	if s.owner.unmounted {
		return
	}
	s.value = v
	s.owner.invalidate()
}
