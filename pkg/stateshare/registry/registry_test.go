package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fill stores each value under its key.
func fill[K comparable, V any](r *Registry[K, V], values map[K]V) {
	for k, v := range values {
		r.GetOrCreate(k, func() V { return v })
	}
}

func always[V any](V) bool { return true }

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestGet(t *testing.T) {
	r := New[string, int]()
	fill(r, map[string]int{"one": 1, "two": 2})

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, r.Has("two"))

	// Non-existent key
	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.False(t, r.Has("three"))
}

func TestDeleteIf(t *testing.T) {
	r := New[string, int]()
	fill(r, map[string]int{"small": 1, "big": 100})

	isBig := func(v int) bool { return v > 10 }

	_, removed := r.DeleteIf("small", isBig)
	assert.False(t, removed)
	assert.True(t, r.Has("small"))

	v, removed := r.DeleteIf("big", isBig)
	assert.True(t, removed)
	assert.Equal(t, 100, v)
	assert.False(t, r.Has("big"))

	_, removed = r.DeleteIf("missing", always[int])
	assert.False(t, removed)
}

func TestRangeAllowsMutation(t *testing.T) {
	r := New[string, int]()
	fill(r, map[string]int{"one": 1, "two": 2})

	r.Range(func(k string, v int) bool {
		r.DeleteIf(k, always[int])
		r.GetOrCreate("new-"+k, func() int { return v * 10 })
		return true
	})

	seen := map[string]int{}
	r.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"new-one": 10, "new-two": 20}, seen)
}

func TestRangeEarlyStop(t *testing.T) {
	r := New[string, int]()
	fill(r, map[string]int{"one": 1, "two": 2, "three": 3})

	count := 0
	r.Range(func(string, int) bool {
		count++
		return false
	})

	assert.Equal(t, 1, count)
}

func TestReset(t *testing.T) {
	r := New[string, int]()
	fill(r, map[string]int{"one": 1, "two": 2})

	removed := r.Reset()

	assert.ElementsMatch(t, []int{1, 2}, removed)
	assert.Equal(t, 0, r.Len())
}

func TestGetOrCreate(t *testing.T) {
	r := New[string, int]()

	callCount := 0
	factory := func() int {
		callCount++
		return 42
	}

	v, created := r.GetOrCreate("key", factory)
	assert.Equal(t, 42, v)
	assert.True(t, created)

	v, created = r.GetOrCreate("key", factory)
	assert.Equal(t, 42, v)
	assert.False(t, created)
	assert.Equal(t, 1, callCount)
}

func TestGetOrCreateAfterDelete(t *testing.T) {
	r := New[string, int]()
	next := 0
	factory := func() int {
		next++
		return next
	}

	v, _ := r.GetOrCreate("key", factory)
	require.Equal(t, 1, v)

	_, removed := r.DeleteIf("key", always[int])
	require.True(t, removed)

	v, created := r.GetOrCreate("key", factory)
	assert.True(t, created)
	assert.Equal(t, 2, v)
}

func TestGetOrCreateReentrant(t *testing.T) {
	r := New[string, string]()

	outer, created := r.GetOrCreate("outer", func() string {
		inner, _ := r.GetOrCreate("inner", func() string { return "leaf" })
		return "wraps " + inner
	})

	require.True(t, created)
	assert.Equal(t, "wraps leaf", outer)
	assert.True(t, r.Has("inner"))
	assert.Equal(t, 2, r.Len())
}

func TestGetOrCreateFactoryPanic(t *testing.T) {
	r := New[string, int]()

	assert.Panics(t, func() {
		r.GetOrCreate("key", func() int { panic("boom") })
	})
	assert.False(t, r.Has("key"))

	// The key is usable again after a failed factory.
	v, created := r.GetOrCreate("key", func() int { return 7 })
	assert.True(t, created)
	assert.Equal(t, 7, v)
}

func TestConcurrentGetOrCreate(t *testing.T) {
	r := New[string, int]()
	var wg sync.WaitGroup
	n := 100
	var callCount atomic.Int32

	factory := func() int {
		callCount.Add(1)
		return 42
	}

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := r.GetOrCreate("key", factory)
			assert.Equal(t, 42, v)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), callCount.Load())
	assert.Equal(t, 1, r.Len())
}

func TestConcurrentReadWrite(t *testing.T) {
	r := New[int, int]()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(writerID int) {
			defer wg.Done()
			for j := range 100 {
				r.GetOrCreate(writerID*1000+j, func() int { return j })
				r.DeleteIf(writerID*1000+j, func(v int) bool { return v%2 == 0 })
			}
		}(i)
	}

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				r.Range(func(int, int) bool { return true })
				r.Len()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 500, r.Len())
}
