package stateshare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/stateshare/pkg/stateshare"
	"github.com/randalmurphal/stateshare/pkg/stateshare/component"
)

// sharedCounter destroys itself when its last consumer unmounts.
type sharedCounter struct {
	stateshare.Handler[counter]
}

func (*sharedCounter) HandlerConfig() stateshare.Config {
	return stateshare.Config{DestroyOnUnmount: true}
}

func (h *sharedCounter) Increment() {
	h.UpdateState(func(c counter) counter {
		return counter{N: c.N + 1}
	})
}

// view records what a consumer rendered.
type view struct {
	states  []counter
	handler *sharedCounter
}

func (v *view) last() counter {
	return v.states[len(v.states)-1]
}

func counterView(reg *stateshare.Registry) (*view, *component.Component) {
	v := &view{}
	c := component.New(func(host stateshare.Host) {
		state, h := stateshare.UseStateHandler[sharedCounter](reg, host, stateshare.Value(counter{}))
		v.states = append(v.states, state)
		v.handler = h
	})
	return v, c
}

func TestUseStateHandler_CounterScenario(t *testing.T) {
	reg := newTestRegistry(t)

	v1, c1 := counterView(reg)
	c1.Mount()
	require.Equal(t, counter{N: 0}, v1.last())

	v1.handler.Increment()
	assert.Equal(t, counter{N: 1}, v1.last())

	v2, c2 := counterView(reg)
	c2.Mount()
	assert.Same(t, v1.handler, v2.handler, "second consumer shares the instance")
	assert.Equal(t, counter{N: 1}, v2.last())

	v2.handler.SetState(counter{N: 5})
	assert.Equal(t, counter{N: 5}, v1.last())
	assert.Equal(t, counter{N: 5}, v2.last())

	c1.Unmount()
	assert.True(t, stateshare.Has[sharedCounter](reg))

	c2.Unmount()
	assert.False(t, stateshare.Has[sharedCounter](reg), "last unmount deletes the record")

	fresh := stateshare.GetOrCreate[sharedCounter](reg, stateshare.Value(counter{N: 0}))
	assert.NotSame(t, v1.handler, fresh)
	assert.Equal(t, counter{N: 0}, fresh.State())
}

func TestUseStateHandler_RerendersOnUpdate(t *testing.T) {
	reg := newTestRegistry(t)
	v, c := counterView(reg)
	c.Mount()
	defer c.Unmount()

	before := c.Renders()
	v.handler.Increment()
	v.handler.Increment()
	assert.Equal(t, before+2, c.Renders())
}

func TestUseStateHandler_NoUpdatesAfterUnmount(t *testing.T) {
	reg := newTestRegistry(t)
	h := stateshare.GetOrCreate[keptHandler, counter](reg)

	c := component.New(func(host stateshare.Host) {
		stateshare.UseStateHandler[keptHandler, counter](reg, host)
	})
	c.Mount()
	c.Unmount()
	renders := c.Renders()

	h.SetState(counter{N: 9})
	assert.Equal(t, renders, c.Renders())
	assert.Equal(t, 1, h.created)
}

func TestUsePartialHandler(t *testing.T) {
	reg := newTestRegistry(t)
	h := stateshare.GetOrCreate[docHandler](reg, stateshare.Value(map[string]any{"count": 1, "name": "a"}))

	var seen []map[string]any
	c := component.New(func(host stateshare.Host) {
		state, _ := stateshare.UsePartialHandler[docHandler](reg, host, stateshare.Keys[map[string]any]("count"))
		seen = append(seen, state)
	})
	c.Mount()
	defer c.Unmount()
	renders := c.Renders()

	h.SetState(map[string]any{"count": 1, "name": "b"})
	assert.Equal(t, renders, c.Renders(), "unrelated key does not re-render")

	h.SetState(map[string]any{"count": 2, "name": "b"})
	assert.Equal(t, renders+1, c.Renders())
	assert.Equal(t, 2, seen[len(seen)-1]["count"])
}

func TestUseSelector(t *testing.T) {
	reg := newTestRegistry(t)
	h := stateshare.GetOrCreate[profileHandler](reg, stateshare.Value(profile{Name: "ada", Count: 1}))

	var names []string
	c := component.New(func(host stateshare.Host) {
		name, _ := stateshare.UseSelector[profileHandler](reg, host, func(p profile) string { return p.Name })
		names = append(names, name)
	})
	c.Mount()
	defer c.Unmount()

	h.SetState(profile{Name: "ada", Count: 2})
	h.SetState(profile{Name: "grace", Count: 2})

	assert.Equal(t, []string{"ada", "grace"}, names)
}

func TestGetHandler_DoesNotSubscribe(t *testing.T) {
	reg := newTestRegistry(t)

	var h *counterHandler
	c := component.New(func(host stateshare.Host) {
		h = stateshare.GetHandler[counterHandler, counter](reg)
	})
	c.Mount()
	defer c.Unmount()

	h.Increment()
	assert.Equal(t, 1, c.Renders())
	assert.Equal(t, 0, reg.Entries()[0].Subscribers)
}

func TestUseHandler_Local(t *testing.T) {
	reg := newTestRegistry(t)

	type local struct {
		state counter
		h     *keptHandler
	}
	render := func(out *local) component.RenderFunc {
		return func(host stateshare.Host) {
			out.state, out.h = stateshare.UseHandler[keptHandler](host, stateshare.Value(counter{N: 1}))
		}
	}

	var a, b local
	ca := component.New(render(&a))
	cb := component.New(render(&b))
	ca.Mount()
	cb.Mount()

	first := a.h
	a.h.SetState(counter{N: 2})

	assert.Same(t, first, a.h, "handler is stable across renders")
	assert.NotSame(t, a.h, b.h)
	assert.Equal(t, 2, a.state.N)
	assert.Equal(t, 1, b.state.N)
	assert.Equal(t, 0, reg.Len(), "local handlers are never registered")
	assert.Equal(t, 0, a.h.created)

	ca.Unmount()
	cb.Unmount()
	assert.Equal(t, 0, a.h.deleted)
}
