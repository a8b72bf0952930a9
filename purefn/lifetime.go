package purefn

import "sync/atomic"

// lifetime decides whether the cache is cleared when a top-level call
// returns. It is fixed when the function is tableized.
type lifetime struct {
	mode LifetimeMode

	// addressKeyed is set when some key component embeds a storage address:
	// ptr or ref keys with at least one reference parameter.
	addressKeyed bool

	clearAtBoundary bool
}

func newLifetime(cfg Config, params []Param) lifetime {
	addressKeyed := cfg.KeyMode != KeyVal && hasRef(params)
	return lifetime{
		mode:            cfg.Lifetime,
		addressKeyed:    addressKeyed,
		clearAtBoundary: cfg.Lifetime == LifetimeProblem || addressKeyed,
	}
}

// downgraded reports a program lifetime that is cleared per top-level call
// because a stale address could otherwise match reused storage.
func (l lifetime) downgraded() bool {
	return l.mode == LifetimeProgram && l.clearAtBoundary
}

// depth tracks calls in flight to find top-level boundaries.
type depth interface {
	// enter reports whether this call is top-level.
	enter() bool
	// leave reports whether no call remains in flight.
	leave() bool
}

type localDepth struct{ n int }

func (d *localDepth) enter() bool {
	d.n++
	return d.n == 1
}

func (d *localDepth) leave() bool {
	d.n--
	return d.n == 0
}

// sharedDepth treats the moment the last concurrent call returns as the
// boundary. Overlapping calls may postpone it indefinitely; address keys stay
// sound meanwhile because a cached key keeps its referent alive.
type sharedDepth struct{ n atomic.Int64 }

func (d *sharedDepth) enter() bool { return d.n.Add(1) == 1 }
func (d *sharedDepth) leave() bool { return d.n.Add(-1) == 0 }
