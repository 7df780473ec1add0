// ring.go
//
// Lock-free single-producer/single-consumer ring used to hand finished
// sieve segments from the producer (the segmented driver) to the print
// consumer. Producer and consumer cursors live on separate cache-lines to
// eliminate false sharing, and each slot carries a sequence stamp so
// Push/Pop stay wait-free with one atomic apiece.
//
// The payload is an opaque pointer: the print pipeline circulates
// fixed-size segment blocks through a second ring in the opposite
// direction, so steady-state operation allocates nothing.

package ring

import (
	"sync/atomic"
	"unsafe"
)

// slot couples a payload pointer with its sequence stamp.
type slot struct {
	seq atomic.Uint64
	ptr unsafe.Pointer
}

// Ring is a fixed-capacity circular buffer dedicated to one producer and
// one consumer goroutine.
type Ring struct {
	_    [64]byte // producer cursor isolated on its own cache-line
	tail uint64
	_    [64]byte
	head uint64
	_    [64]byte
	mask uint64
	buf  []slot
}

// New allocates a ring whose size must be a power of two; otherwise it
// panics so the bit-masking arithmetic stays valid.
func New(size int) *Ring {
	if size <= 0 || size&(size-1) != 0 {
		panic("ring: size must be >0 and a power of two")
	}
	r := &Ring{
		mask: uint64(size - 1),
		buf:  make([]slot, size),
	}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	return r
}

// Push enqueues p, returning false if the buffer is full.
//
//go:nosplit
func (r *Ring) Push(p unsafe.Pointer) bool {
	t := r.tail
	s := &r.buf[t&r.mask]
	if s.seq.Load() != t {
		return false // consumer has not yet reclaimed the slot
	}
	s.ptr = p
	s.seq.Store(t + 1)
	r.tail = t + 1
	return true
}

// PushWait busy-spins until space frees up. The producer sieves faster
// than the consumer can write() during bursts; this is the backpressure
// point.
//
//go:nosplit
func (r *Ring) PushWait(p unsafe.Pointer) {
	for !r.Push(p) {
		cpuRelax()
	}
}

// Pop dequeues one pointer or nil if the buffer is empty.
//
//go:nosplit
func (r *Ring) Pop() unsafe.Pointer {
	h := r.head
	s := &r.buf[h&r.mask]
	if s.seq.Load() != h+1 {
		return nil // producer has not yet published to the slot
	}
	p := s.ptr
	s.seq.Store(h + uint64(len(r.buf)))
	r.head = h + 1
	return p
}

// PopWait busy-spins until an item becomes available.
//
//go:nosplit
func (r *Ring) PopWait() unsafe.Pointer {
	for {
		if p := r.Pop(); p != nil {
			return p
		}
		cpuRelax()
	}
}
