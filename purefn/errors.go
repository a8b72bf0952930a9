package purefn

import (
	"errors"

	"github.com/on-the-ground/memo_ive_go/purefn/internal/keys"
)

// Configuration errors. All of them are reported when a function is
// tableized, never while it is being called.
var (
	ErrMutableReference = errors.New("purefn: mutable reference parameters cannot be memoized")
	ErrUnknownMode      = errors.New("purefn: unknown mode")
	ErrUnsupportedParam = errors.New("purefn: unsupported parameter")
	ErrParamCount       = errors.New("purefn: parameter count does not match function arity")

	// ErrUnsupportedType is returned for parameter types with no key material,
	// such as funcs and channels. For interface parameters it can only be
	// detected at call time, where it is raised as a panic.
	ErrUnsupportedType = keys.ErrUnsupportedType
)
