package purefn

import (
	"fmt"
	"reflect"
	"regexp"
)

// Shape describes how a parameter is passed.
type Shape uint8

const (
	// ByValue parameters are keyed by a copy of their content.
	ByValue Shape = iota
	// ByRef parameters are immutable references: pointers, slices, strings
	// or maps the function only reads. They are keyed per KeyMode.
	ByRef
	// ByMutRef marks a reference the function may write through. Such
	// functions are rejected.
	ByMutRef
)

func (s Shape) String() string {
	switch s {
	case ByValue:
		return "value"
	case ByRef:
		return "ref"
	case ByMutRef:
		return "mut-ref"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Param describes one parameter of a memoized function.
type Param struct {
	Name  string
	Shape Shape
}

// Val describes a by-value parameter.
func Val(name string) Param { return Param{Name: name, Shape: ByValue} }

// Ref describes an immutable reference parameter.
func Ref(name string) Param { return Param{Name: name, Shape: ByRef} }

// MutRef describes a mutable reference parameter. Tableizing a function
// with one fails with ErrMutableReference.
func MutRef(name string) Param { return Param{Name: name, Shape: ByMutRef} }

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// receiverNames are bindings that do not name a plain argument.
var receiverNames = map[string]bool{"self": true, "this": true, "_": true}

func (p Param) validate(t reflect.Type) error {
	if p.Shape == ByMutRef {
		return fmt.Errorf("%w: %s", ErrMutableReference, p.Name)
	}
	if p.Shape != ByValue && p.Shape != ByRef {
		return fmt.Errorf("%w: %s has shape %s", ErrUnsupportedParam, p.Name, p.Shape)
	}
	if !identPattern.MatchString(p.Name) {
		return fmt.Errorf("%w: %q is not a simple identifier", ErrUnsupportedParam, p.Name)
	}
	if receiverNames[p.Name] {
		return fmt.Errorf("%w: receiver or wildcard %q", ErrUnsupportedParam, p.Name)
	}
	if p.Shape == ByRef && !isReference(t) {
		return fmt.Errorf("%w: %s of type %s is not a reference", ErrUnsupportedParam, p.Name, t)
	}
	return nil
}

func isReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.String, reflect.Map:
		return true
	}
	return false
}

// inferParams names parameters arg0..argN and treats pointers, slices and
// maps as immutable references.
func inferParams(types []reflect.Type) []Param {
	params := make([]Param, len(types))
	for i, t := range types {
		name := fmt.Sprintf("arg%d", i)
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map:
			params[i] = Ref(name)
		default:
			params[i] = Val(name)
		}
	}
	return params
}

// hasRef reports whether any parameter is an immutable reference.
func hasRef(params []Param) bool {
	for _, p := range params {
		if p.Shape == ByRef {
			return true
		}
	}
	return false
}
