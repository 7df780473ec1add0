// primegen.go — lazy generator of sieving primes.
//
// The driver needs every prime p with 7 <= p <= sqrt(stop), delivered in
// ascending order and just in time: a prime is registered with the wheel
// engine only once p² reaches the segment about to be sieved. Generating
// them lazily keeps the large-prime classifier's bucket ring small (a
// record is never more than one next-multiple hop ahead of the current
// segment at registration).
//
// The generator itself is a tiny two-level sieve: base primes up to
// sqrt(sqrt(stop)) come from a flat odds-only bitset, and sieving primes
// are produced window by window from a 4 KiB odds bitmap. Memory stays a
// few KiB regardless of the bound.

package erat

import "main/utils"

const (
	// genWindowOdds is the number of odd values per generator window:
	// 2^15 odds = one 4 KiB bitmap covering a span of 2^16 integers.
	genWindowOdds = 1 << 15
)

type generator struct {
	limit uint64   // inclusive: sqrt(stop)
	base  []uint64 // odd primes <= sqrt(limit)
	bits  []uint64 // window bitmap, bit i = (lo + 2i) is composite
	lo    uint64   // first odd covered by the current window
	n     int      // odds in the current window
	i     int      // scan cursor within the window
	done  bool
}

// newGenerator prepares a generator for primes in [7, limit].
func newGenerator(limit uint64) *generator {
	g := &generator{
		limit: limit,
		bits:  make([]uint64, genWindowOdds/64),
	}
	if limit < 7 {
		g.done = true
		return g
	}

	// Base primes via a flat odds sieve up to sqrt(limit). sqrt(limit) is
	// at most 2^16 for any admissible bound, so this is a one-shot 4 KiB
	// pass.
	r := utils.Isqrt(limit)
	if r >= 3 {
		odd := make([]bool, r/2+1) // odd[i] = (2i+1) composite
		for v := uint64(3); v*v <= r; v += 2 {
			if odd[v/2] {
				continue
			}
			for m := v * v; m <= r; m += 2 * v {
				odd[m/2] = true
			}
		}
		for v := uint64(3); v <= r; v += 2 {
			if !odd[v/2] {
				g.base = append(g.base, v)
			}
		}
	}

	g.fill(7)
	return g
}

// fill sieves the window starting at the odd value lo.
func (g *generator) fill(lo uint64) {
	g.lo = lo
	g.i = 0
	for i := range g.bits {
		g.bits[i] = 0
	}

	span := uint64(genWindowOdds) * 2
	hi := lo + span - 1 // last value covered (odd window, stride 2)
	if hi > g.limit || hi < lo {
		hi = g.limit
	}
	g.n = int((hi-lo)/2) + 1

	for _, q := range g.base {
		m := q * q
		if m < lo {
			m = (lo + q - 1) / q * q
			if m%2 == 0 {
				m += q
			}
		}
		for ; m <= hi; m += 2 * q {
			idx := (m - lo) / 2
			g.bits[idx/64] |= 1 << (idx % 64)
		}
	}
}

// next returns the next sieving prime, or 0 once the limit is exhausted.
func (g *generator) next() uint64 {
	for !g.done {
		for ; g.i < g.n; g.i++ {
			if g.bits[g.i/64]&(1<<(g.i%64)) == 0 {
				p := g.lo + uint64(g.i)*2
				g.i++
				return p
			}
		}
		next := g.lo + uint64(genWindowOdds)*2
		if next > g.limit || next < g.lo {
			g.done = true
			return 0
		}
		g.fill(next)
	}
	return 0
}
