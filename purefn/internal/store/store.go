// Package store holds memoized results keyed by composite keys.
//
// Local is for a single goroutine and takes no locks. Shared guards the
// same trie with a mutex held only for the duration of one Load or Store,
// never across the computation of a missing value.
package store

import (
	"sync"

	"github.com/on-the-ground/memo_ive_go/purefn/internal/keys"
)

// Store is the cache behind one memoized function.
type Store[V any] interface {
	Load(key keys.Key) (V, bool)
	Store(key keys.Key, value V)
	Clear()
	Len() int
}

// Local is an unsynchronized Store owned by one goroutine.
type Local[V any] struct {
	trie *Trie[V]
}

func NewLocal[V any](maxSize int) *Local[V] {
	return &Local[V]{trie: NewTrie[V](maxSize)}
}

func (s *Local[V]) Load(key keys.Key) (V, bool) { return s.trie.Load(key) }
func (s *Local[V]) Store(key keys.Key, value V) { s.trie.Store(key, value) }
func (s *Local[V]) Clear()                      { s.trie.Clear() }
func (s *Local[V]) Len() int                    { return s.trie.Len() }

// Shared is a Store safe for concurrent use.
//
// Two goroutines missing on the same key both compute it and the later
// Store wins. Shared does not deduplicate in-flight work.
type Shared[V any] struct {
	mu   sync.Mutex
	trie *Trie[V]
}

func NewShared[V any](maxSize int) *Shared[V] {
	return &Shared[V]{trie: NewTrie[V](maxSize)}
}

func (s *Shared[V]) Load(key keys.Key) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trie.Load(key)
}

func (s *Shared[V]) Store(key keys.Key, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trie.Store(key, value)
}

func (s *Shared[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trie.Clear()
}

func (s *Shared[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trie.Len()
}

var (
	_ Store[int] = (*Local[int])(nil)
	_ Store[int] = (*Shared[int])(nil)
)
