package stateshare

import "reflect"

// Merger states define their own merge. With Merge enabled, an update on a
// state implementing Merger stores prev.MergeState(next).
type Merger[T any] interface {
	MergeState(next T) T
}

// mergeState combines prev and next for a handler in merge mode. Map states
// of the same type are shallow-merged: keys from next win, keys only in prev
// are kept, nested values are not merged. Other states are replaced. The bool
// reports whether a merge happened.
func mergeState[T any](prev, next T) (T, bool) {
	if m, ok := any(prev).(Merger[T]); ok && !isNil(reflect.ValueOf(m)) {
		return m.MergeState(next), true
	}

	pv := reflect.ValueOf(any(prev))
	nv := reflect.ValueOf(any(next))
	if !pv.IsValid() || !nv.IsValid() {
		return next, false
	}
	if pv.Kind() != reflect.Map || nv.Kind() != reflect.Map || pv.Type() != nv.Type() {
		return next, false
	}

	merged, ok := shallowMerge(pv, nv).Interface().(T)
	if !ok {
		return next, false
	}
	return merged, true
}

// shallowMerge returns a new map holding prev's entries overwritten by next's.
// Neither input is modified.
func shallowMerge(prev, next reflect.Value) reflect.Value {
	out := reflect.MakeMapWithSize(next.Type(), prev.Len()+next.Len())
	for _, src := range []reflect.Value{prev, next} {
		iter := src.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
	}
	return out
}
