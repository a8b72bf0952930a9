// Package clone copies memoized results so the cache keeps sole ownership
// of what it stores.
package clone

import (
	"reflect"
)

// Cloner is implemented by types that know how to copy themselves.
type Cloner[T any] interface {
	Clone() T
}

// For returns the copy function for T. Types without pointers, slices, maps
// or interfaces are returned as is; everything else is deep copied.
// Unexported struct fields are copied shallowly.
func For[T any]() func(T) T {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface && t.Implements(reflect.TypeFor[Cloner[T]]()) {
		return func(v T) T {
			return any(v).(Cloner[T]).Clone()
		}
	}
	if !hasReferences(t, map[reflect.Type]bool{}) {
		return func(v T) T { return v }
	}
	return func(v T) T {
		var out T
		reflect.ValueOf(&out).Elem().Set(deepCopy(reflect.ValueOf(&v).Elem()))
		return out
	}
}

func hasReferences(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	case reflect.Array:
		return hasReferences(t.Elem(), seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasReferences(t.Field(i).Type, seen) {
				return true
			}
		}
	}
	return false
}

func deepCopy(v reflect.Value) reflect.Value {
	t := v.Type()
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(t)
		}
		n := reflect.New(t.Elem())
		n.Elem().Set(deepCopy(v.Elem()))
		return n
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(t)
		}
		n := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			n.Index(i).Set(deepCopy(v.Index(i)))
		}
		return n
	case reflect.Array:
		n := reflect.New(t).Elem()
		for i := 0; i < v.Len(); i++ {
			n.Index(i).Set(deepCopy(v.Index(i)))
		}
		return n
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(t)
		}
		n := reflect.MakeMapWithSize(t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			n.SetMapIndex(deepCopy(iter.Key()), deepCopy(iter.Value()))
		}
		return n
	case reflect.Struct:
		n := reflect.New(t).Elem()
		n.Set(v)
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			n.Field(i).Set(deepCopy(v.Field(i)))
		}
		return n
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(t)
		}
		n := reflect.New(t).Elem()
		n.Set(deepCopy(v.Elem()))
		return n
	default:
		return v
	}
}
