// small.go — cross-off path for small sieving primes.
//
// Small primes (up to sieveBytes*3/4) hit every segment several times, so
// deferral buys nothing: records live in one flat slice and every segment
// pass runs each record's wheel to the end of the buffer. The modulo-30
// wheel is the right resolution here — small primes dominate total
// cross-off count, and the smaller table keeps its 64 entries pinned in L1.

package erat

import "main/wheel"

type eratSmall struct {
	engine wheel.Engine
	limit  uint64 // largest prime routed here
	primes []wheel.Prime
}

func newEratSmall(stop uint64, sieveBytes uint32, limit uint64) (*eratSmall, error) {
	engine, err := wheel.NewEngine(wheel.Modulo30, stop, sieveBytes)
	if err != nil {
		return nil, err
	}
	return &eratSmall{engine: engine, limit: limit}, nil
}

// Store implements wheel.Store: flat-slice placement.
func (e *eratSmall) Store(sievingPrime, multipleIndex, wheelIndex uint32) {
	var p wheel.Prime
	p.SetAll(sievingPrime, multipleIndex, wheelIndex)
	e.primes = append(e.primes, p)
}

func (e *eratSmall) add(prime, segmentLow uint64) {
	e.engine.Add(prime, segmentLow, e)
}

// crossOff unsets every multiple inside the segment for each record, then
// rebases the record's multiple index onto the next segment.
func (e *eratSmall) crossOff(sieve []byte) {
	size := uint32(len(sieve))
	w := e.engine.Wheel()
	for i := range e.primes {
		p := &e.primes[i]
		sievingPrime := p.SievingPrime()
		multipleIndex := p.MultipleIndex()
		wheelIndex := p.WheelIndex()
		for multipleIndex < size {
			w.Unset(sieve, sievingPrime, &multipleIndex, &wheelIndex)
		}
		p.Set(multipleIndex-size, wheelIndex)
	}
}
