package purefn

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/memo_ive_go/purefn/internal/clone"
	"github.com/on-the-ground/memo_ive_go/purefn/internal/keys"
	"github.com/on-the-ground/memo_ive_go/purefn/internal/store"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Memo is the cache handle of a tableized function. It is owned by whoever
// tableized the function; there is no package-level cache.
type Memo struct {
	id     string
	name   string
	cfg    Config
	params []Param
	life   lifetime
	logger *zap.Logger
	inst   *instruments
	stats  counters
	depth  depth

	clearFn func(reason string)
	lenFn   func() int
}

// ID uniquely identifies this memo in logs, metrics and traces.
func (m *Memo) ID() string { return m.id }

func (m *Memo) Name() string { return m.name }

func (m *Memo) Config() Config { return m.cfg }

// Params returns the parameter descriptors the key is derived from.
func (m *Memo) Params() []Param {
	return append([]Param(nil), m.params...)
}

// Clear empties the cache.
func (m *Memo) Clear() { m.clearFn("explicit") }

// Len returns the number of cached entries.
func (m *Memo) Len() int { return m.lenFn() }

func (m *Memo) Stats() Stats { return m.stats.snapshot() }

// PersistsAcrossCalls reports whether entries survive the end of a
// top-level call. It is false for the problem lifetime and for a program
// lifetime whose keys embed storage addresses.
func (m *Memo) PersistsAcrossCalls() bool { return !m.life.clearAtBoundary }

// Scope opens a problem explicitly. Calls made before end is called are not
// top-level, so they share entries even under a lifetime that clears per
// call. Calling end closes the problem and applies the lifetime. For
// ThreadSingle the scope must be opened and closed on the owning goroutine.
//
//	end := sum.Scope()
//	defer end()
func (m *Memo) Scope() (end func()) {
	m.depth.enter()
	var once sync.Once
	return func() {
		once.Do(m.leave)
	}
}

// leave closes one call or scope and clears at a top-level boundary.
func (m *Memo) leave() {
	if m.depth.leave() && m.life.clearAtBoundary {
		m.clearFn("top-level call returned")
	}
}

// engine runs the lookup, compute and store cycle for one function.
type engine[R any] struct {
	*Memo
	derivers []keys.Deriver
	clone    func(R) R

	once  sync.Once
	store store.Store[R]
}

func newEngine[R any](fnName string, types []reflect.Type, opts []Option) (*engine[R], error) {
	s := newSettings(opts)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	params := s.params
	if params == nil {
		params = inferParams(types)
	}
	if len(params) != len(types) {
		return nil, fmt.Errorf("%w: %d descriptors for %d parameters", ErrParamCount, len(params), len(types))
	}

	seen := make(map[string]bool, len(params))
	derivers := make([]keys.Deriver, len(params))
	for i, p := range params {
		if err := p.validate(types[i]); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrUnsupportedParam, p.Name)
		}
		seen[p.Name] = true

		d, err := keys.Compile(types[i], p.Shape == ByRef, s.cfg.KeyMode.derivation())
		if err != nil {
			return nil, fmt.Errorf("purefn: parameter %s: %w", p.Name, err)
		}
		derivers[i] = d
	}

	name := s.name
	if name == "" {
		name = fnName
	}
	id := uuid.New().String()
	inst, err := newInstruments(s.meterProvider, s.tracerProvider, id, name)
	if err != nil {
		return nil, fmt.Errorf("purefn: failed to create instruments: %w", err)
	}

	e := &engine[R]{
		derivers: derivers,
		clone:    clone.For[R](),
	}
	var d depth = &localDepth{}
	if s.cfg.ThreadMode == ThreadMulti {
		d = &sharedDepth{}
	}
	e.Memo = &Memo{
		id:      id,
		name:    name,
		cfg:     s.cfg,
		params:  params,
		life:    newLifetime(s.cfg, params),
		logger:  s.logger.With(zap.String("memo_id", id), zap.String("memo", name)),
		inst:    inst,
		depth:   d,
		clearFn: e.clear,
		lenFn:   func() int { return e.table().Len() },
	}

	e.logger.Debug("tableized function",
		zap.String("key_mode", string(s.cfg.KeyMode)),
		zap.String("thread_mode", string(s.cfg.ThreadMode)),
		zap.String("lifetime", string(s.cfg.Lifetime)),
		zap.Int("params", len(params)),
	)
	if e.life.downgraded() {
		e.logger.Info("program lifetime cleared per call: keys embed storage addresses",
			zap.String("key_mode", string(s.cfg.KeyMode)),
		)
	}
	return e, nil
}

// table creates the store on first use.
func (e *engine[R]) table() store.Store[R] {
	e.once.Do(func() {
		if e.cfg.ThreadMode == ThreadMulti {
			e.store = store.NewShared[R](e.cfg.MaxEntries)
		} else {
			e.store = store.NewLocal[R](e.cfg.MaxEntries)
		}
	})
	return e.store
}

func (e *engine[R]) clear(reason string) {
	e.table().Clear()
	e.stats.clears.Add(1)
	e.inst.recordClear()
	if ce := e.logger.Check(zap.DebugLevel, "cache cleared"); ce != nil {
		ce.Write(zap.String("reason", reason))
	}
}

func (e *engine[R]) deriveKey(args []reflect.Value) keys.Key {
	parts := make([]keys.Component, len(e.derivers))
	for i, d := range e.derivers {
		parts[i] = d.Derive(args[i])
	}
	return keys.NewKey(parts...)
}

// call answers from the cache or runs invoke with the caller's original
// arguments. Failed computations are returned as is and never stored.
func (e *engine[R]) call(args []reflect.Value, invoke func() (R, error)) (res R, err error) {
	if len(e.derivers) == 0 {
		e.stats.bypasses.Add(1)
		return invoke()
	}

	top := e.depth.enter()
	var span trace.Span
	if top {
		span = e.inst.startCall()
	}
	hit := false
	defer func() {
		if top {
			endCall(span, hit, err)
		}
		e.leave()
	}()

	key := e.deriveKey(args)
	if key.Aliased() {
		e.stats.bypasses.Add(1)
		return invoke()
	}

	st := e.table()
	if v, ok := st.Load(key); ok {
		hit = true
		e.stats.hits.Add(1)
		e.inst.recordHit()
		if ce := e.logger.Check(zap.DebugLevel, "cache hit"); ce != nil {
			ce.Write(zap.Uint64("key_hash", key.Hash()))
		}
		return e.clone(v), nil
	}

	e.stats.misses.Add(1)
	start := time.Now()
	res, err = invoke()
	e.inst.recordMiss(time.Since(start), err)
	if err != nil {
		e.stats.failures.Add(1)
		if ce := e.logger.Check(zap.DebugLevel, "computation failed, not cached"); ce != nil {
			ce.Write(zap.Uint64("key_hash", key.Hash()), zap.Error(err))
		}
		return res, err
	}

	st.Store(key, e.clone(res))
	if ce := e.logger.Check(zap.DebugLevel, "cache miss stored"); ce != nil {
		ce.Write(zap.Uint64("key_hash", key.Hash()))
	}
	return res, nil
}
