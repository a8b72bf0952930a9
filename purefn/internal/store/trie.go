package store

import (
	"github.com/on-the-ground/memo_ive_go/purefn/internal/keys"
)

// Trie maps composite keys to values, one level per key position.
//
// Each level buckets components by hash and resolves collisions with
// Component.Equal, so a lookup stops at the first position that has no
// equal component. Ref components are also indexed by location, so a known
// location is found without consulting the content. When maxSize is non-zero the trie keeps two generations
// and drops the older one once the head generation fills up.
//
// Trie is not safe for concurrent use.
type Trie[V any] struct {
	gens    [2]*level[V]
	sizes   [2]int
	headIdx int
	maxSize int
}

type level[V any] struct {
	buckets map[uint64][]*edge[V]
	located map[location]*edge[V]
}

type location struct {
	addr   uintptr
	length int
}

type edge[V any] struct {
	part  keys.Component
	next  *level[V]
	value V
}

func newLevel[V any]() *level[V] {
	return &level[V]{
		buckets: make(map[uint64][]*edge[V]),
		located: make(map[location]*edge[V]),
	}
}

// NewTrie returns an empty trie. maxSize 0 means unbounded.
func NewTrie[V any](maxSize int) *Trie[V] {
	if maxSize < 0 {
		panic("maxSize should not be negative")
	}
	return &Trie[V]{
		gens:    [2]*level[V]{newLevel[V](), newLevel[V]()},
		maxSize: maxSize,
	}
}

// Load looks key up in the head generation, then in the previous one.
func (t *Trie[V]) Load(key keys.Key) (V, bool) {
	if key.Len() == 0 {
		panic("trie: empty key")
	}
	if e := t.find(t.gens[t.headIdx], key); e != nil {
		return e.value, true
	}
	if e := t.find(t.gens[1-t.headIdx], key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (t *Trie[V]) find(l *level[V], key keys.Key) *edge[V] {
	last := key.Len() - 1
	for i := 0; i <= last; i++ {
		e := l.lookup(key.At(i))
		if e == nil {
			return nil
		}
		if i == last {
			return e
		}
		l = e.next
	}
	return nil
}

func (l *level[V]) lookup(part keys.Component) *edge[V] {
	if part.Kind() == keys.KindRef {
		if e, ok := l.located[location{part.Addr(), part.Len()}]; ok {
			return e
		}
	}
	for _, e := range l.buckets[part.Hash()] {
		if e.part.Equal(part) {
			return e
		}
	}
	return nil
}

// Store inserts or overwrites the value for key.
func (t *Trie[V]) Store(key keys.Key, value V) {
	if key.Len() == 0 {
		panic("trie: empty key")
	}
	if t.maxSize > 0 && t.sizes[t.headIdx] >= t.maxSize {
		t.headIdx = 1 - t.headIdx
		t.gens[t.headIdx] = newLevel[V]()
		t.sizes[t.headIdx] = 0
	}

	l := t.gens[t.headIdx]
	last := key.Len() - 1
	for i := 0; i <= last; i++ {
		part := key.At(i)
		e := l.lookup(part)
		if e == nil {
			e = &edge[V]{part: part}
			if i < last {
				e.next = newLevel[V]()
			} else {
				t.sizes[t.headIdx]++
			}
			l.buckets[part.Hash()] = append(l.buckets[part.Hash()], e)
		}
		if part.Kind() == keys.KindRef {
			l.located[location{part.Addr(), part.Len()}] = e
		}
		if i == last {
			e.value = value
			return
		}
		l = e.next
	}
}

// Len returns the number of stored entries across both generations.
func (t *Trie[V]) Len() int {
	return t.sizes[0] + t.sizes[1]
}

// Clear drops every entry.
func (t *Trie[V]) Clear() {
	t.gens = [2]*level[V]{newLevel[V](), newLevel[V]()}
	t.sizes = [2]int{}
	t.headIdx = 0
}
