// medium.go — cross-off path for medium sieving primes.
//
// Medium primes (sievingPrime up to sieveBytes>>constants.MediumShift)
// advance by strictly less than one segment per cross-off, so a record
// never needs to move: it lives in its bucket slot for the whole run and
// is updated in place each segment. The bucket list only grows at
// registration time.
//
// The modulo-210 wheel pays off here: each cross-off is expensive enough
// (one cache line touched per multiple) that skipping multiples of 7 on
// top of 2, 3 and 5 is a net win despite the 8x larger table.

package erat

import (
	"main/bucket"
	"main/wheel"
)

type eratMedium struct {
	engine wheel.Engine
	limit  uint64 // largest prime routed here
	pool   bucket.Pool
	head   *bucket.Bucket
	tail   *bucket.Bucket
}

func newEratMedium(stop uint64, sieveBytes uint32, limit uint64) (*eratMedium, error) {
	engine, err := wheel.NewEngine(wheel.Modulo210, stop, sieveBytes)
	if err != nil {
		return nil, err
	}
	e := &eratMedium{engine: engine, limit: limit}
	e.head = e.pool.Get()
	e.tail = e.head
	return e, nil
}

// Store implements wheel.Store: bucket-list placement, appending at the
// tail and linking a fresh node once the current one signals full.
func (e *eratMedium) Store(sievingPrime, multipleIndex, wheelIndex uint32) {
	if !e.tail.Store(sievingPrime, multipleIndex, wheelIndex) {
		next := e.pool.Get()
		e.tail.SetNext(next)
		e.tail = next
	}
}

func (e *eratMedium) add(prime, segmentLow uint64) {
	e.engine.Add(prime, segmentLow, e)
}

// crossOff walks every stored record, unsets its multiples inside the
// segment and rebases it in place onto the next segment. A record whose
// next multiple is still one or more segments out simply has its index
// reduced — the while loop never fires for it.
func (e *eratMedium) crossOff(sieve []byte) {
	size := uint32(len(sieve))
	w := e.engine.Wheel()
	for b := e.head; b != nil; b = b.Next() {
		primes := b.Primes()
		for i := range primes {
			p := &primes[i]
			sievingPrime := p.SievingPrime()
			multipleIndex := p.MultipleIndex()
			wheelIndex := p.WheelIndex()
			for multipleIndex < size {
				w.Unset(sieve, sievingPrime, &multipleIndex, &wheelIndex)
			}
			p.Set(multipleIndex-size, wheelIndex)
		}
	}
}
