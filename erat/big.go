// ============================================================================
// LARGE SIEVING-PRIME CLASSIFIER
// ============================================================================
//
// Big primes hit at most one multiple per segment, usually far fewer, so
// touching every record every segment would be pure waste. Instead records
// are parked in a ring of bucket lists indexed by how many segments ahead
// their next multiple falls: list[cur] holds exactly the records due in
// the segment being sieved. Each of those is crossed off once, advanced,
// and re-bucketed by its new distance; lists the current segment never
// touches cost nothing.
//
// The segment distance is multipleIndex >> log2(sieveBytes), which is why
// this path requires a power-of-two segment size; the masked remainder is
// what goes into the packed 23-bit field, so the large path never strains
// the record format no matter how far ahead a prime is parked.
//
// Processed nodes go back to the arena pool and the drained list position
// is reused when the ring wraps — memory is bounded by the ring span (one
// next-multiple hop of the largest sieving prime) times the bucket fill.

package erat

import (
	"errors"

	"main/bucket"
	"main/utils"
	"main/wheel"
)

var errSieveSizeNotPow2 = errors.New("erat: big classifier requires a power-of-two sieve size")

type eratBig struct {
	engine wheel.Engine
	log2   uint32
	modulo uint32 // sieveBytes - 1
	cur    uint32 // ring position of the segment being sieved
	lists  []*bucket.Bucket
	pool   bucket.Pool
}

func newEratBig(stop uint64, sieveBytes uint32) (*eratBig, error) {
	engine, err := wheel.NewEngine(wheel.Modulo210, stop, sieveBytes)
	if err != nil {
		return nil, err
	}
	if sieveBytes == 0 || sieveBytes&(sieveBytes-1) != 0 {
		return nil, errSieveSizeNotPow2
	}
	log2 := uint32(0)
	for uint32(1)<<(log2+1) <= sieveBytes {
		log2++
	}

	// Ring span: at registration (and after every cross-off) a record's
	// multiple is at most one wheel hop past the segment end, and one hop
	// is bounded by sqrt(stop) * maxFactor / 30 bytes.
	maxIndex := uint64(sieveBytes) +
		utils.Isqrt(stop)*uint64(wheel.Modulo210.MaxFactor())/30 + 1
	segments := uint32(maxIndex>>log2) + 2

	e := &eratBig{
		engine: engine,
		log2:   log2,
		modulo: sieveBytes - 1,
		lists:  make([]*bucket.Bucket, segments),
	}
	for i := range e.lists {
		e.lists[i] = e.pool.Get()
	}
	return e, nil
}

// Store implements wheel.Store: ring placement by segment distance. New
// nodes are pushed stack-style at the list head, so the head is always the
// one node with free slots.
func (e *eratBig) Store(sievingPrime, multipleIndex, wheelIndex uint32) {
	segment := multipleIndex >> e.log2
	multipleIndex &= e.modulo
	idx := e.cur + segment
	if n := uint32(len(e.lists)); idx >= n {
		idx -= n
	}
	b := e.lists[idx]
	if !b.Store(sievingPrime, multipleIndex, wheelIndex) {
		head := e.pool.Get()
		head.SetNext(b)
		e.lists[idx] = head
	}
}

func (e *eratBig) add(prime, segmentLow uint64) {
	e.engine.Add(prime, segmentLow, e)
}

// crossOff drains the current ring position: every record due in this
// segment is crossed off exactly once and re-bucketed by its new distance.
// Re-stores at distance zero land back in the fresh current head and are
// picked up by the outer loop, so threshold stragglers with two multiples
// in one segment still resolve here.
func (e *eratBig) crossOff(sieve []byte) {
	w := e.engine.Wheel()
	for {
		head := e.lists[e.cur]
		if head.Empty() && !head.HasNext() {
			break
		}
		e.lists[e.cur] = e.pool.Get()
		for b := head; b != nil; {
			primes := b.Primes()
			for i := range primes {
				p := &primes[i]
				sievingPrime := p.SievingPrime()
				multipleIndex := p.MultipleIndex()
				wheelIndex := p.WheelIndex()
				w.Unset(sieve, sievingPrime, &multipleIndex, &wheelIndex)
				e.Store(sievingPrime, multipleIndex, wheelIndex)
			}
			next := b.Next()
			e.pool.Put(b)
			b = next
		}
	}
}

// advance rotates the ring after a segment completes; the drained node at
// the old position stays in place for reuse when the ring wraps.
func (e *eratBig) advance() {
	e.cur++
	if e.cur == uint32(len(e.lists)) {
		e.cur = 0
	}
}
