package stateshare_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/randalmurphal/stateshare/pkg/stateshare"
)

type counter struct {
	N    int
	Name string
}

type counterHandler struct {
	stateshare.Handler[counter]
}

func (h *counterHandler) Increment() {
	h.UpdateState(func(c counter) counter {
		c.N++
		return c
	})
}

// mapHandler replaces its state on update.
type mapHandler struct {
	stateshare.Handler[map[string]int]
}

// mergeHandler shallow-merges its state on update.
type mergeHandler struct {
	stateshare.Handler[map[string]int]
}

func (*mergeHandler) HandlerConfig() stateshare.Config {
	return stateshare.Config{Merge: true}
}

// lifecycleHandler counts its callbacks and is destroyed with its last
// listener.
type lifecycleHandler struct {
	stateshare.Handler[counter]
	created int
	deleted int
}

func (*lifecycleHandler) HandlerConfig() stateshare.Config {
	return stateshare.Config{DestroyOnUnmount: true}
}

func (h *lifecycleHandler) InstanceCreated() { h.created++ }
func (h *lifecycleHandler) InstanceDeleted() { h.deleted++ }

// keptHandler counts its callbacks and survives its listeners.
type keptHandler struct {
	stateshare.Handler[counter]
	created int
	deleted int
}

func (h *keptHandler) InstanceCreated() { h.created++ }
func (h *keptHandler) InstanceDeleted() { h.deleted++ }

type defaultsHandler struct {
	stateshare.Handler[counter]
}

func (*defaultsHandler) DefaultState() counter {
	return counter{N: 10, Name: "default"}
}

// tally merges by summing hits.
type tally map[string]int

type tallyHandler struct {
	stateshare.Handler[tallySet]
}

type tallySet struct {
	Hits tally
}

func (s tallySet) MergeState(next tallySet) tallySet {
	out := tallySet{Hits: tally{}}
	for k, v := range s.Hits {
		out.Hits[k] = v
	}
	for k, v := range next.Hits {
		out.Hits[k] += v
	}
	return out
}

func (*tallyHandler) HandlerConfig() stateshare.Config {
	return stateshare.Config{Merge: true}
}

type anyHandler struct {
	stateshare.Handler[any]
}

// logBuffer returns a debug-level JSON logger writing to a buffer.
func logBuffer() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

// newTestRegistry returns a registry that discards logs.
func newTestRegistry(t *testing.T, opts ...stateshare.Option) *stateshare.Registry {
	t.Helper()
	opts = append([]stateshare.Option{stateshare.WithLogger(nil)}, opts...)
	reg := stateshare.NewRegistry(opts...)
	t.Cleanup(reg.Reset)
	return reg
}

func countLines(buf *bytes.Buffer, substr string) int {
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
