package stateshare

import "reflect"

// Filter decides whether a state change is relevant to a listener.
type Filter[T any] interface {
	Changed(prev, next T) bool
}

// FilterFunc adapts a comparator to a Filter. It reports true when the
// listener should fire.
type FilterFunc[T any] func(prev, next T) bool

// Changed calls f.
func (f FilterFunc[T]) Changed(prev, next T) bool {
	return f(prev, next)
}

// Comparator returns a Filter that fires when fn(prev, next) is true.
func Comparator[T any](fn func(prev, next T) bool) Filter[T] {
	return FilterFunc[T](fn)
}

type keysFilter[T any] struct {
	keys []string
}

// Keys returns a Filter that fires when any named key differs between the
// previous and next state. Keys are map keys for string-keyed map states and
// field names for struct states. Values are compared by identity: maps,
// slices and funcs by reference, everything else by value.
func Keys[T any](keys ...string) Filter[T] {
	return keysFilter[T]{keys: keys}
}

func (f keysFilter[T]) Changed(prev, next T) bool {
	pv := indirect(reflect.ValueOf(any(prev)))
	nv := indirect(reflect.ValueOf(any(next)))
	for _, k := range f.keys {
		if !sameValue(field(pv, k), field(nv, k)) {
			return true
		}
	}
	return false
}

// field looks up key in a string-keyed map or a struct. It returns the zero
// Value when the key is absent.
func field(v reflect.Value, key string) reflect.Value {
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
	case reflect.Struct:
		return v.FieldByName(key)
	default:
		return reflect.Value{}
	}
}

type selectorFilter[T, F any] struct {
	sel func(T) F
}

// Selector returns a Filter that fires when the selected slice of the state
// changes. Selected maps, slices, arrays and structs are compared shallowly,
// element by element; anything else by identity. A selection that becomes
// nil or stops being nil always fires.
func Selector[T, F any](sel func(T) F) Filter[T] {
	return selectorFilter[T, F]{sel: sel}
}

func (f selectorFilter[T, F]) Changed(prev, next T) bool {
	return shallowDiffers(reflect.ValueOf(any(f.sel(prev))), reflect.ValueOf(any(f.sel(next))))
}

func shallowDiffers(a, b reflect.Value) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) != isNil(b)
	}
	if a.Kind() == reflect.Pointer && b.Kind() == reflect.Pointer {
		a, b = a.Elem(), b.Elem()
	}
	if a.Type() != b.Type() {
		return true
	}

	switch a.Kind() {
	case reflect.Map:
		if a.Len() != b.Len() {
			return true
		}
		iter := b.MapRange()
		for iter.Next() {
			if !sameValue(a.MapIndex(iter.Key()), iter.Value()) {
				return true
			}
		}
		return false
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return true
		}
		for i := range a.Len() {
			if !sameValue(a.Index(i), b.Index(i)) {
				return true
			}
		}
		return false
	case reflect.Struct:
		for i := range a.NumField() {
			if !sameValue(a.Field(i), b.Field(i)) {
				return true
			}
		}
		return false
	default:
		return !sameValue(a, b)
	}
}

// sameValue compares by identity: reference kinds by pointer, composite
// values element-wise, the rest with ==.
func sameValue(a, b reflect.Value) bool {
	for a.IsValid() && a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	for b.IsValid() && b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Array:
		for i := range a.Len() {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range a.NumField() {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	default:
		return a.Equal(b)
	}
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// Selective wraps fn so it only fires when f reports a change between the
// last state delivered to fn and the next one. Suppressed states are not
// remembered, so a Comparator sees the distance from the last delivery.
// initial is the state the listener starts from, normally the handler's
// current state.
func Selective[T any](f Filter[T], initial T, fn Listener[T]) Listener[T] {
	last := initial
	return func(next T) {
		if !f.Changed(last, next) {
			return
		}
		last = next
		fn(next)
	}
}
