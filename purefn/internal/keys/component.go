package keys

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Kind tells how a Component compares and hashes.
type Kind uint8

const (
	// KindContent components compare and hash by content only.
	KindContent Kind = iota
	// KindAddress components compare and hash by storage location only.
	KindAddress
	// KindRef components compare by address first and fall back to content.
	// They hash by content so equal content lands in the same bucket.
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindAddress:
		return "address"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// Component is the key material derived from one argument.
//
// Address-bearing components also hold the referent, so storage named by a
// cached key stays reachable and its address is never reused meanwhile.
type Component struct {
	kind    Kind
	ptr     unsafe.Pointer
	addr    uintptr
	length  int
	span    uintptr // bytes covered from addr, for alias detection
	content []byte
	hash    uint64
}

// NewContent builds a content-only component.
func NewContent(content []byte) Component {
	return Component{kind: KindContent, content: content, hash: xxhash.Sum64(content)}
}

// NewAddress builds an address component for the storage at p. length is
// the element count for sequences and zero otherwise.
func NewAddress(p unsafe.Pointer, length int) Component {
	addr := uintptr(p)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(addr))
	binary.LittleEndian.PutUint64(buf[8:], uint64(length))
	return Component{kind: KindAddress, ptr: p, addr: addr, length: length, hash: xxhash.Sum64(buf[:])}
}

// NewRef builds an address-plus-content component for the storage at p.
func NewRef(p unsafe.Pointer, length int, content []byte) Component {
	return Component{kind: KindRef, ptr: p, addr: uintptr(p), length: length, content: content, hash: xxhash.Sum64(content)}
}

func (c Component) Kind() Kind      { return c.kind }
func (c Component) Addr() uintptr   { return c.addr }
func (c Component) Len() int        { return c.length }
func (c Component) Content() []byte { return c.content }
func (c Component) Hash() uint64    { return c.hash }

// Equal reports whether c and o identify the same argument.
func (c Component) Equal(o Component) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindAddress:
		return c.addr == o.addr && c.length == o.length
	case KindRef:
		// same storage is trusted to hold the same content
		if c.addr == o.addr && c.length == o.length {
			return true
		}
		return c.hash == o.hash && bytes.Equal(c.content, o.content)
	default:
		return c.hash == o.hash && bytes.Equal(c.content, o.content)
	}
}

// overlaps reports whether c and o cover a common byte. Empty extents count
// as one byte so that equal addresses always overlap.
func (c Component) overlaps(o Component) bool {
	return c.addr < o.addr+max(o.span, 1) && o.addr < c.addr+max(c.span, 1)
}

// embedsAddress reports whether equality depends on a storage location.
func (c Component) embedsAddress() bool {
	return c.kind == KindAddress || c.kind == KindRef
}
