package purefn

import (
	"reflect"
	"runtime"
)

// Tableized pairs a memoized function with its cache handle.
//
//	var fib purefn.Tableized[func(int) int]
//	fib = purefn.Must(purefn.TableizeI1O1(func(n int) int {
//		if n < 2 {
//			return n
//		}
//		return fib.Fn(n-1) + fib.Fn(n-2)
//	}))
type Tableized[F any] struct {
	// Fn has the signature of the wrapped function.
	Fn F
	*Memo
}

// Must panics if err is non-nil. It is intended for package-level
// declarations and tests.
func Must[F any](t Tableized[F], err error) Tableized[F] {
	if err != nil {
		panic(err)
	}
	return t
}

func TableizeI0O1[O1 any](pureFn func() O1, opts ...Option) (Tableized[func() O1], error) {
	e, err := newEngine[O1](funcName(pureFn), nil, opts)
	if err != nil {
		return Tableized[func() O1]{}, err
	}
	return Tableized[func() O1]{
		Fn: func() O1 {
			res, _ := e.call(nil, func() (O1, error) {
				return pureFn(), nil
			})
			return res
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI1O1[I1, O1 any](pureFn func(I1) O1, opts ...Option) (Tableized[func(I1) O1], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1]()), opts)
	if err != nil {
		return Tableized[func(I1) O1]{}, err
	}
	return Tableized[func(I1) O1]{
		Fn: func(i1 I1) O1 {
			res, _ := e.call([]reflect.Value{valueOf(i1)}, func() (O1, error) {
				return pureFn(i1), nil
			})
			return res
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI2O1[I1, I2, O1 any](pureFn func(I1, I2) O1, opts ...Option) (Tableized[func(I1, I2) O1], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2]()), opts)
	if err != nil {
		return Tableized[func(I1, I2) O1]{}, err
	}
	return Tableized[func(I1, I2) O1]{
		Fn: func(i1 I1, i2 I2) O1 {
			res, _ := e.call([]reflect.Value{valueOf(i1), valueOf(i2)}, func() (O1, error) {
				return pureFn(i1, i2), nil
			})
			return res
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI3O1[I1, I2, I3, O1 any](pureFn func(I1, I2, I3) O1, opts ...Option) (Tableized[func(I1, I2, I3) O1], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2](), reflect.TypeFor[I3]()), opts)
	if err != nil {
		return Tableized[func(I1, I2, I3) O1]{}, err
	}
	return Tableized[func(I1, I2, I3) O1]{
		Fn: func(i1 I1, i2 I2, i3 I3) O1 {
			res, _ := e.call([]reflect.Value{valueOf(i1), valueOf(i2), valueOf(i3)}, func() (O1, error) {
				return pureFn(i1, i2, i3), nil
			})
			return res
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI4O1[I1, I2, I3, I4, O1 any](pureFn func(I1, I2, I3, I4) O1, opts ...Option) (Tableized[func(I1, I2, I3, I4) O1], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2](), reflect.TypeFor[I3](), reflect.TypeFor[I4]()), opts)
	if err != nil {
		return Tableized[func(I1, I2, I3, I4) O1]{}, err
	}
	return Tableized[func(I1, I2, I3, I4) O1]{
		Fn: func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
			res, _ := e.call([]reflect.Value{valueOf(i1), valueOf(i2), valueOf(i3), valueOf(i4)}, func() (O1, error) {
				return pureFn(i1, i2, i3, i4), nil
			})
			return res
		},
		Memo: e.Memo,
	}, nil
}

// The E variants memoize functions that can fail. An error is returned to
// the caller unchanged and nothing is cached for that call, so the same
// arguments are recomputed next time.

func TableizeI0O1E[O1 any](pureFn func() (O1, error), opts ...Option) (Tableized[func() (O1, error)], error) {
	e, err := newEngine[O1](funcName(pureFn), nil, opts)
	if err != nil {
		return Tableized[func() (O1, error)]{}, err
	}
	return Tableized[func() (O1, error)]{
		Fn: func() (O1, error) {
			return e.call(nil, pureFn)
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI1O1E[I1, O1 any](pureFn func(I1) (O1, error), opts ...Option) (Tableized[func(I1) (O1, error)], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1]()), opts)
	if err != nil {
		return Tableized[func(I1) (O1, error)]{}, err
	}
	return Tableized[func(I1) (O1, error)]{
		Fn: func(i1 I1) (O1, error) {
			return e.call([]reflect.Value{valueOf(i1)}, func() (O1, error) {
				return pureFn(i1)
			})
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI2O1E[I1, I2, O1 any](pureFn func(I1, I2) (O1, error), opts ...Option) (Tableized[func(I1, I2) (O1, error)], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2]()), opts)
	if err != nil {
		return Tableized[func(I1, I2) (O1, error)]{}, err
	}
	return Tableized[func(I1, I2) (O1, error)]{
		Fn: func(i1 I1, i2 I2) (O1, error) {
			return e.call([]reflect.Value{valueOf(i1), valueOf(i2)}, func() (O1, error) {
				return pureFn(i1, i2)
			})
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI3O1E[I1, I2, I3, O1 any](pureFn func(I1, I2, I3) (O1, error), opts ...Option) (Tableized[func(I1, I2, I3) (O1, error)], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2](), reflect.TypeFor[I3]()), opts)
	if err != nil {
		return Tableized[func(I1, I2, I3) (O1, error)]{}, err
	}
	return Tableized[func(I1, I2, I3) (O1, error)]{
		Fn: func(i1 I1, i2 I2, i3 I3) (O1, error) {
			return e.call([]reflect.Value{valueOf(i1), valueOf(i2), valueOf(i3)}, func() (O1, error) {
				return pureFn(i1, i2, i3)
			})
		},
		Memo: e.Memo,
	}, nil
}

func TableizeI4O1E[I1, I2, I3, I4, O1 any](pureFn func(I1, I2, I3, I4) (O1, error), opts ...Option) (Tableized[func(I1, I2, I3, I4) (O1, error)], error) {
	e, err := newEngine[O1](funcName(pureFn), typesOf(reflect.TypeFor[I1](), reflect.TypeFor[I2](), reflect.TypeFor[I3](), reflect.TypeFor[I4]()), opts)
	if err != nil {
		return Tableized[func(I1, I2, I3, I4) (O1, error)]{}, err
	}
	return Tableized[func(I1, I2, I3, I4) (O1, error)]{
		Fn: func(i1 I1, i2 I2, i3 I3, i4 I4) (O1, error) {
			return e.call([]reflect.Value{valueOf(i1), valueOf(i2), valueOf(i3), valueOf(i4)}, func() (O1, error) {
				return pureFn(i1, i2, i3, i4)
			})
		},
		Memo: e.Memo,
	}, nil
}

// valueOf keeps the static type of v, so interface-typed parameters are
// keyed through their declared interface.
func valueOf[T any](v T) reflect.Value {
	return reflect.ValueOf(&v).Elem()
}

func typesOf(types ...reflect.Type) []reflect.Type {
	return types
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
