package keys

import (
	"errors"
	"fmt"
	"reflect"
	"unsafe"
)

// Mode selects how reference arguments become key material.
type Mode uint8

const (
	// ModePtr keys references by address (and length for sequences).
	ModePtr Mode = iota
	// ModeRef keys references by address with a content fallback.
	ModeRef
	// ModeVal keys references by content only.
	ModeVal
)

// ErrNotReference is returned when a reference derivation is requested for a
// type that has no storage address.
var ErrNotReference = errors.New("type is not a reference")

// Deriver turns one argument into a Component. It is compiled once per
// parameter and reused for every call.
type Deriver struct {
	kind   Kind
	encode encodeFunc
	locate locateFunc
}

// locateFunc finds the storage behind a reference: its start, its element
// count and the number of bytes it covers.
type locateFunc func(reflect.Value) (p unsafe.Pointer, n int, span uintptr)

// Compile builds the Deriver for a parameter of type t. ref marks an
// immutable reference parameter; mode only applies to those.
func Compile(t reflect.Type, ref bool, mode Mode) (Deriver, error) {
	if !ref {
		enc, err := encoderFor(t)
		if err != nil {
			return Deriver{}, err
		}
		return Deriver{kind: KindContent, encode: enc}, nil
	}

	locate, err := locator(t)
	if err != nil {
		return Deriver{}, err
	}

	switch mode {
	case ModePtr:
		return Deriver{kind: KindAddress, locate: locate}, nil
	case ModeRef, ModeVal:
		enc, err := encoderFor(t)
		if err != nil {
			return Deriver{}, err
		}
		if mode == ModeVal {
			return Deriver{kind: KindContent, encode: enc}, nil
		}
		return Deriver{kind: KindRef, encode: enc, locate: locate}, nil
	default:
		return Deriver{}, fmt.Errorf("unknown key mode %d", mode)
	}
}

// Kind reports the kind of Component this Deriver produces.
func (d Deriver) Kind() Kind { return d.kind }

// Derive computes the key material for v.
func (d Deriver) Derive(v reflect.Value) Component {
	switch d.kind {
	case KindAddress:
		p, n, span := d.locate(v)
		c := NewAddress(p, n)
		c.span = span
		return c
	case KindRef:
		p, n, span := d.locate(v)
		c := NewRef(p, n, d.encode(nil, v))
		c.span = span
		return c
	default:
		return NewContent(d.encode(nil, v))
	}
}

func locator(t reflect.Type) (locateFunc, error) {
	switch t.Kind() {
	case reflect.Pointer:
		size := t.Elem().Size()
		return func(v reflect.Value) (unsafe.Pointer, int, uintptr) {
			return v.UnsafePointer(), 0, size
		}, nil
	case reflect.Slice:
		size := t.Elem().Size()
		return func(v reflect.Value) (unsafe.Pointer, int, uintptr) {
			n := v.Len()
			return v.UnsafePointer(), n, size * uintptr(n)
		}, nil
	case reflect.Map:
		return func(v reflect.Value) (unsafe.Pointer, int, uintptr) {
			return v.UnsafePointer(), v.Len(), 0
		}, nil
	case reflect.String:
		return func(v reflect.Value) (unsafe.Pointer, int, uintptr) {
			s := v.String()
			return unsafe.Pointer(unsafe.StringData(s)), len(s), uintptr(len(s))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotReference, t)
	}
}
