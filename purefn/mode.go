package purefn

import (
	"fmt"
	"strings"

	"github.com/on-the-ground/memo_ive_go/purefn/internal/keys"
)

// KeyMode selects how reference parameters become part of the cache key.
type KeyMode string

const (
	// KeyPtr keys references by storage address only. Cheapest to derive,
	// but equal content at a different address misses.
	KeyPtr KeyMode = "ptr"

	// KeyRef compares addresses first and falls back to content.
	KeyRef KeyMode = "ref"

	// KeyVal keys references by a copy of their content.
	KeyVal KeyMode = "val"
)

var keyModeAliases = map[string]KeyMode{
	"ptr":    KeyPtr,
	"light":  KeyPtr,
	"ref":    KeyRef,
	"normal": KeyRef,
	"val":    KeyVal,
	"heavy":  KeyVal,
}

// ParseKeyMode parses ptr, ref or val. The older names light, normal and
// heavy are accepted as aliases.
func ParseKeyMode(s string) (KeyMode, error) {
	if m, ok := keyModeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: key mode %q", ErrUnknownMode, s)
}

func (m KeyMode) valid() bool {
	return m == KeyPtr || m == KeyRef || m == KeyVal
}

func (m KeyMode) derivation() keys.Mode {
	switch m {
	case KeyPtr:
		return keys.ModePtr
	case KeyVal:
		return keys.ModeVal
	default:
		return keys.ModeRef
	}
}

// ThreadMode selects the storage variant.
type ThreadMode string

const (
	// ThreadSingle keeps an unsynchronized cache. A single-mode function
	// must only be called from the goroutine that owns it.
	ThreadSingle ThreadMode = "single"

	// ThreadMulti shares one mutex-guarded cache between goroutines.
	ThreadMulti ThreadMode = "multi"
)

func ParseThreadMode(s string) (ThreadMode, error) {
	switch m := ThreadMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ThreadSingle, ThreadMulti:
		return m, nil
	}
	return "", fmt.Errorf("%w: thread mode %q", ErrUnknownMode, s)
}

func (m ThreadMode) valid() bool {
	return m == ThreadSingle || m == ThreadMulti
}

// LifetimeMode selects when the cache is cleared.
type LifetimeMode string

const (
	// LifetimeProblem clears the cache after every top-level call.
	LifetimeProblem LifetimeMode = "problem"

	// LifetimeProgram keeps entries across top-level calls, unless keys embed
	// storage addresses.
	LifetimeProgram LifetimeMode = "program"
)

func ParseLifetimeMode(s string) (LifetimeMode, error) {
	switch m := LifetimeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case LifetimeProblem, LifetimeProgram:
		return m, nil
	}
	return "", fmt.Errorf("%w: lifetime %q", ErrUnknownMode, s)
}

func (m LifetimeMode) valid() bool {
	return m == LifetimeProblem || m == LifetimeProgram
}
