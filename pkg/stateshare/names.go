package stateshare

import (
	"path"
	"reflect"
	"strings"
	"sync"
)

// typeNameCache memoizes handler names by type.
var typeNameCache sync.Map // map[reflect.Type]string

// typeName returns the "pkg.Type" name used for logs, metrics and policy
// lookup. Pointers are unwrapped and generic instantiation suffixes dropped.
func typeName(t reflect.Type) string {
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}

	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	name := stripTypeParams(base.Name())
	if name == "" {
		name = base.String()
	} else if p := base.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	}

	typeNameCache.Store(t, name)
	return name
}

// stripTypeParams removes a generic instantiation suffix: "T[int]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
