// Package keys derives composite cache keys from argument lists.
//
// Each parameter gets a Deriver compiled from its type, reference shape and
// key mode. A Key is the positional composite of the derived Components.
package keys

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is an ordered composite of Components.
//
// A single-component Key hashes and compares exactly like its component.
type Key struct {
	parts []Component
	hash  uint64
}

// NewKey assembles parts into a Key. parts is retained.
func NewKey(parts ...Component) Key {
	if len(parts) == 1 {
		return Key{parts: parts, hash: parts[0].hash}
	}
	d := xxhash.New()
	var buf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], p.hash)
		_, _ = d.Write(buf[:])
	}
	return Key{parts: parts, hash: d.Sum64()}
}

func (k Key) Hash() uint64       { return k.hash }
func (k Key) Len() int           { return len(k.parts) }
func (k Key) At(i int) Component { return k.parts[i] }
func (k Key) Parts() []Component { return k.parts }

// Equal compares positionally and stops at the first unequal component.
// Hashes are not compared: a Ref component at a known location is equal
// whatever its content hashes to.
func (k Key) Equal(o Key) bool {
	if len(k.parts) != len(o.parts) {
		return false
	}
	for i := range k.parts {
		if !k.parts[i].Equal(o.parts[i]) {
			return false
		}
	}
	return true
}

// EmbedsAddress reports whether any component depends on a storage location.
func (k Key) EmbedsAddress() bool {
	for _, p := range k.parts {
		if p.embedsAddress() {
			return true
		}
	}
	return false
}

// Aliased reports whether two address-only components cover overlapping
// non-nil storage, such as a slice and a reslice of the same backing array.
func (k Key) Aliased() bool {
	for i := 0; i < len(k.parts); i++ {
		a := k.parts[i]
		if a.kind != KindAddress || a.addr == 0 {
			continue
		}
		for j := i + 1; j < len(k.parts); j++ {
			b := k.parts[j]
			if b.kind == KindAddress && b.addr != 0 && a.overlaps(b) {
				return true
			}
		}
	}
	return false
}
