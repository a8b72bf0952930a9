// Package purefn memoizes pure functions by their arguments.
//
// Tableize is not just a utility to add memoization.
// Tableize is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Which of its parameters are references, and may they change?"
//
// The TableizeIxO1 family wraps a function of x parameters and returns a
// Tableized value: Fn has the original signature, and the embedded Memo is the
// cache handle (Clear, Len, Stats). There is no hidden global cache; the
// caller owns the Memo.
//
// # Keys
//
// Every parameter is described by a Param: ByValue, or ByRef for an
// immutable pointer, slice, string or map. Descriptors are inferred when
// WithParams is omitted. By-value parameters are keyed by a copy of their
// content, with floats keyed by bit pattern. Reference parameters follow
// the KeyMode:
//   - KeyPtr: storage address (and length). Cheap, but equal content at
//     another address misses.
//   - KeyRef (default): address first, then content. Equal content always
//     shares an entry; the same address skips the content comparison.
//   - KeyVal: content only.
//
// Types may implement AppendMemoKey(dst []byte) []byte to supply their own
// key material. It is length-prefixed wherever it lands in a key, so values
// nested in slices, structs or maps stay distinct.
//
// # Storage and lifetime
//
// ThreadSingle (default) keeps an unsynchronized cache; use the Tableized
// value from one goroutine only, and tableize once per goroutine if several
// need their own cache. ThreadMulti shares a mutex-guarded cache. The lock is
// never held while the wrapped function runs, so concurrent misses on the
// same arguments may compute twice.
//
// LifetimeProblem (default) clears the cache when a top-level call returns,
// so only the recursive calls of one problem share entries. LifetimeProgram
// keeps entries across calls, except when keys embed storage addresses
// (KeyPtr or KeyRef with a ByRef parameter): a later call could see a reused
// address, so those caches are still cleared per top-level call.
//
// # Failures
//
// Configuration mistakes are reported once, when tableizing. At call time an
// error from an E variant, or a panic, propagates untouched and nothing is
// cached for that call.
//
// Interface-typed parameters are the one exception: their dynamic types are
// only known at call time. A call whose interface argument holds a func, a
// chan or another value without key material panics with an error wrapping
// ErrUnsupportedType.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package purefn
