package keys

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
)

// ErrUnsupportedType is returned when no key material can be derived for a type.
var ErrUnsupportedType = errors.New("unsupported key type")

// Keyable is implemented by types that produce their own key material.
// AppendMemoKey must append bytes that are equal for equal values and
// different otherwise. The bytes are length-prefixed before they join the
// key, so they need not be self-delimiting.
type Keyable interface {
	AppendMemoKey(dst []byte) []byte
}

var keyableType = reflect.TypeFor[Keyable]()

type encodeFunc func(dst []byte, v reflect.Value) []byte

// encoders caches compiled encoders by reflect.Type.
var encoders sync.Map

// encoderFor returns the content encoder for t, compiling it on first use.
func encoderFor(t reflect.Type) (encodeFunc, error) {
	if fn, ok := encoders.Load(t); ok {
		return fn.(encodeFunc), nil
	}
	fn, err := compileEncoder(t, map[reflect.Type]*encodeFunc{})
	if err != nil {
		return nil, err
	}
	actual, _ := encoders.LoadOrStore(t, fn)
	return actual.(encodeFunc), nil
}

func compileEncoder(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	if fn, ok := encoders.Load(t); ok {
		return fn.(encodeFunc), nil
	}
	// recursive types resolve through the placeholder once it is filled in
	if p, ok := inProgress[t]; ok {
		return func(dst []byte, v reflect.Value) []byte {
			return (*p)(dst, v)
		}, nil
	}
	var fn encodeFunc
	inProgress[t] = &fn

	built, err := buildEncoder(t, inProgress)
	if err != nil {
		return nil, err
	}
	fn = built
	return fn, nil
}

func buildEncoder(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	if t.Kind() != reflect.Interface && t.Implements(keyableType) {
		structural, serr := buildStructural(t, inProgress)
		return func(dst []byte, v reflect.Value) []byte {
			if v.CanInterface() {
				own := v.Interface().(Keyable).AppendMemoKey(nil)
				dst = binary.AppendUvarint(dst, uint64(len(own)))
				return append(dst, own...)
			}
			if serr != nil {
				panic(serr)
			}
			return structural(dst, v)
		}, nil
	}
	return buildStructural(t, inProgress)
}

func buildStructural(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	switch t.Kind() {
	case reflect.Bool:
		return encodeBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return encodeInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return encodeUint, nil
	case reflect.Float32:
		return encodeFloat32, nil
	case reflect.Float64:
		return encodeFloat64, nil
	case reflect.Complex64:
		return encodeComplex64, nil
	case reflect.Complex128:
		return encodeComplex128, nil
	case reflect.String:
		return encodeString, nil
	case reflect.Slice, reflect.Array:
		return buildSequence(t, inProgress)
	case reflect.Struct:
		return buildStruct(t, inProgress)
	case reflect.Pointer:
		elem, err := compileEncoder(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		return func(dst []byte, v reflect.Value) []byte {
			if v.IsNil() {
				return append(dst, 0)
			}
			return elem(append(dst, 1), v.Elem())
		}, nil
	case reflect.Map:
		return buildMap(t, inProgress)
	case reflect.Interface:
		return encodeInterface, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func encodeBool(dst []byte, v reflect.Value) []byte {
	if v.Bool() {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func encodeInt(dst []byte, v reflect.Value) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(v.Int()))
}

func encodeUint(dst []byte, v reflect.Value) []byte {
	return binary.LittleEndian.AppendUint64(dst, v.Uint())
}

// Floats are keyed by bit pattern: -0 and +0 differ, equal NaN payloads match.
func encodeFloat32(dst []byte, v reflect.Value) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v.Float())))
}

func encodeFloat64(dst []byte, v reflect.Value) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.Float()))
}

func encodeComplex64(dst []byte, v reflect.Value) []byte {
	c := v.Complex()
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(real(c))))
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(imag(c))))
}

func encodeComplex128(dst []byte, v reflect.Value) []byte {
	c := v.Complex()
	dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(real(c)))
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(imag(c)))
}

func encodeString(dst []byte, v reflect.Value) []byte {
	s := v.String()
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

// buildSequence gives arrays and slices the same encoding, so a fixed-size
// array and a slice with the same elements produce the same key material.
func buildSequence(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	if t.Elem().Kind() == reflect.Uint8 && !t.Elem().Implements(keyableType) {
		return func(dst []byte, v reflect.Value) []byte {
			n := v.Len()
			dst = binary.AppendUvarint(dst, uint64(n))
			if t.Kind() == reflect.Slice {
				return append(dst, v.Bytes()...)
			}
			for i := 0; i < n; i++ {
				dst = append(dst, byte(v.Index(i).Uint()))
			}
			return dst
		}, nil
	}
	elem, err := compileEncoder(t.Elem(), inProgress)
	if err != nil {
		return nil, err
	}
	return func(dst []byte, v reflect.Value) []byte {
		n := v.Len()
		dst = binary.AppendUvarint(dst, uint64(n))
		for i := 0; i < n; i++ {
			dst = elem(dst, v.Index(i))
		}
		return dst
	}, nil
}

func buildStruct(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	fields := make([]encodeFunc, t.NumField())
	for i := range fields {
		f := t.Field(i)
		fn, err := compileEncoder(f.Type, inProgress)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, f.Name, err)
		}
		fields[i] = fn
	}
	return func(dst []byte, v reflect.Value) []byte {
		for i, fn := range fields {
			dst = fn(dst, v.Field(i))
		}
		return dst
	}, nil
}

// buildMap sorts entries by their encoded key so iteration order never
// leaks into the key material.
func buildMap(t reflect.Type, inProgress map[reflect.Type]*encodeFunc) (encodeFunc, error) {
	keyEnc, err := compileEncoder(t.Key(), inProgress)
	if err != nil {
		return nil, err
	}
	valEnc, err := compileEncoder(t.Elem(), inProgress)
	if err != nil {
		return nil, err
	}
	type entry struct{ k, v []byte }
	return func(dst []byte, v reflect.Value) []byte {
		if v.IsNil() {
			return append(dst, 0)
		}
		entries := make([]entry, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entries = append(entries, entry{
				k: keyEnc(nil, iter.Key()),
				v: valEnc(nil, iter.Value()),
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].k, entries[j].k) < 0
		})
		dst = append(dst, 1)
		dst = binary.AppendUvarint(dst, uint64(len(entries)))
		for _, e := range entries {
			dst = append(dst, e.k...)
			dst = append(dst, e.v...)
		}
		return dst
	}, nil
}

// encodeInterface resolves the dynamic type at call time, so interface
// parameters cannot be checked when a function is tableized. A dynamic type
// without key material, such as a func or a chan, panics with an error
// wrapping ErrUnsupportedType.
func encodeInterface(dst []byte, v reflect.Value) []byte {
	if v.IsNil() {
		return append(dst, 0)
	}
	elem := v.Elem()
	fn, err := encoderFor(elem.Type())
	if err != nil {
		panic(err)
	}
	dst = append(dst, 1)
	dst = encodeString(dst, reflect.ValueOf(elem.Type().String()))
	return fn(dst, elem)
}
