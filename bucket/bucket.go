// Package bucket provides fixed-capacity, singly-linked storage nodes for
// packed sieving-prime records, plus a chunked arena that recycles nodes
// without per-prime heap allocation. The medium and large prime classifiers
// use bucket lists to defer cross-off work for primes whose next multiple
// falls outside the current segment.
//
// A node fills by successive Store calls until the cursor reaches capacity;
// the call that writes the last slot returns false, signalling the caller
// to link a fresh node and continue there. Consuming a node means iterating
// Primes() and then Reset(), which rewinds the cursor for reuse without
// deallocation. Every list is exclusively owned by one classifier instance;
// records have no identity outside their slot.
package bucket

import (
	"main/constants"
	"main/wheel"
)

// Bucket is one fixed-capacity node of a singly linked list.
type Bucket struct {
	cur    uint32
	next   *Bucket
	primes [constants.BucketSize]wheel.Prime
}

// Store writes a record at the cursor and reports whether the node still
// has room for another one. After a false return the caller must not store
// into this node again: capacity calls is the hard limit, and no further
// bounds check exists beyond this signal.
//
//go:nosplit
//go:inline
func (b *Bucket) Store(sievingPrime, multipleIndex, wheelIndex uint32) bool {
	i := b.cur
	b.cur++
	b.primes[i].SetAll(sievingPrime, multipleIndex, wheelIndex)
	return i != constants.BucketSize-1
}

// Primes returns the valid record range: everything written since the last
// Reset. Records may be mutated in place through the returned slice.
//
//go:nosplit
//go:inline
func (b *Bucket) Primes() []wheel.Prime {
	return b.primes[:b.cur]
}

// Empty reports whether no records are currently stored.
//
//go:nosplit
//go:inline
func (b *Bucket) Empty() bool { return b.cur == 0 }

// Reset rewinds the cursor, enabling node reuse after a full
// consume-and-clear pass.
//
//go:nosplit
//go:inline
func (b *Bucket) Reset() { b.cur = 0 }

// Next returns the following node in the list, or nil.
//
//go:nosplit
//go:inline
func (b *Bucket) Next() *Bucket { return b.next }

// HasNext reports whether a following node exists.
//
//go:nosplit
//go:inline
func (b *Bucket) HasNext() bool { return b.next != nil }

// SetNext links the following node.
//
//go:nosplit
//go:inline
func (b *Bucket) SetNext(next *Bucket) { b.next = next }

// Pool hands out reset bucket nodes from chunk-allocated arenas. Nodes
// returned to the pool go on a freelist threaded through their next
// pointers; Get prefers the freelist and only grows the arena (one chunk of
// constants.BucketChunk nodes at a time) when it runs dry. Chunks are never
// released while the pool lives, so node addresses stay stable.
type Pool struct {
	free   *Bucket
	chunks [][]Bucket
}

// Get returns an empty, unlinked bucket node.
func (p *Pool) Get() *Bucket {
	if p.free == nil {
		chunk := make([]Bucket, constants.BucketChunk)
		p.chunks = append(p.chunks, chunk)
		for i := range chunk {
			chunk[i].next = p.free
			p.free = &chunk[i]
		}
	}
	b := p.free
	p.free = b.next
	b.next = nil
	b.cur = 0
	return b
}

// Put returns a node to the freelist. The node must already be unlinked
// from its list; its records are dropped, not preserved.
func (p *Pool) Put(b *Bucket) {
	b.cur = 0
	b.next = p.free
	p.free = b
}
