// ============================================================================
// SEGMENTED SIEVE DRIVER
// ============================================================================
//
// Sieve owns the per-segment byte buffer and advances it across the range
// [start, stop]. One byte encodes 30 numbers (bits = residues 7, 11, 13,
// 17, 19, 23, 29, 31 of the byte's base value), so a 32 KiB segment covers
// 983,040 integers per pass and the whole run needs no memory proportional
// to the range.
//
// Per-segment pipeline:
//   1. Pull sieving primes whose square has reached this segment from the
//      lazy generator and register each with its classifier (exactly once,
//      before the segment containing its first relevant multiple).
//   2. Refill the buffer with 0xff and run the three cross-off paths.
//   3. Mask the range boundaries, then hand the finished prefix to the
//      consumers: population count, optional streaming fingerprint,
//      optional emitter (print pipeline).
//
// Cancellation is polled once per segment (control stop flag); the
// cross-off loops themselves have no interruption points.

package erat

import (
	"errors"
	"math/bits"

	"github.com/cespare/xxhash/v2"

	"main/constants"
	"main/control"
	"main/utils"
)

// BitValues maps a sieve bit position to its value offset from the byte's
// base (segmentLow + byteIndex*30).
var BitValues = [8]uint64{7, 11, 13, 17, 19, 23, 29, 31}

var errBadRange = errors.New("erat: start must not exceed stop")

// Sieve is one single-threaded segmented sieve instance. Instances over
// disjoint ranges share nothing but the read-only wheel tables and may run
// in parallel without coordination.
type Sieve struct {
	start, stop uint64
	sieveBytes  uint32
	low         uint64
	buf         []byte

	small  *eratSmall
	medium *eratMedium
	big    *eratBig

	gen     *generator
	pending uint64

	mediumSP  uint32 // sievingPrime ceiling of the medium path
	prePrimes []uint64

	count   uint64
	digest  *xxhash.Digest
	emit    func(low uint64, seg []byte)
	aborted bool
}

// NewSieve builds a sieve over [start, stop]. sieveBytes is clamped to
// [constants.MinSieveBytes, constants.MaxSieveBytes] and rounded down to a
// power of two; pass 0 for the default segment size.
func NewSieve(start, stop uint64, sieveBytes uint32) (*Sieve, error) {
	if start > stop {
		return nil, errBadRange
	}
	sieveBytes = clampSieveBytes(sieveBytes)

	// The byte at base covers base+7 through base+31, so a start that lands
	// on residue 0 or 1 has its first representable value (start or start+1,
	// residue 1) in the byte before the aligned one. Pull the grid back a
	// byte there; maskLow clears the extra low bits.
	low := start - start%30
	if start%30 <= 1 && low >= 30 {
		low -= 30
	}

	s := &Sieve{
		start:      start,
		stop:       stop,
		sieveBytes: sieveBytes,
		low:        low,
		buf:        make([]byte, sieveBytes),
		mediumSP:   sieveBytes >> constants.MediumShift,
	}

	smallLimit := uint64(sieveBytes) * constants.SmallFactorNum / constants.SmallFactorDen
	var err error
	if s.small, err = newEratSmall(stop, sieveBytes, smallLimit); err != nil {
		return nil, err
	}
	mediumLimit := uint64(s.mediumSP)*30 + 29
	if s.medium, err = newEratMedium(stop, sieveBytes, mediumLimit); err != nil {
		return nil, err
	}
	if s.big, err = newEratBig(stop, sieveBytes); err != nil {
		return nil, err
	}

	// 2, 3 and 5 are the wheel's base factors: their multiples have no bit
	// in the sieve, and neither do they. Emit them out of band.
	for _, p := range []uint64{2, 3, 5} {
		if start <= p && p <= stop {
			s.prePrimes = append(s.prePrimes, p)
		}
	}
	return s, nil
}

func clampSieveBytes(v uint32) uint32 {
	if v == 0 {
		return constants.DefaultSieveBytes
	}
	if v < constants.MinSieveBytes {
		return constants.MinSieveBytes
	}
	if v > constants.MaxSieveBytes {
		return constants.MaxSieveBytes
	}
	for v&(v-1) != 0 {
		v &= v - 1 // round down to a power of two
	}
	return v
}

// EnableDigest turns on the streaming xxh64 fingerprint of the sieved
// bitmap. The fingerprint covers the boundary-masked segment bytes, so it
// depends only on [start, stop] — not on segment size or thread layout —
// and is comparable across runs and platforms.
func (s *Sieve) EnableDigest() {
	s.digest = xxhash.New()
}

// SetEmitter registers a per-segment consumer for the print pipeline. The
// slice is only valid during the call; the consumer must copy what it
// keeps.
func (s *Sieve) SetEmitter(fn func(low uint64, seg []byte)) {
	s.emit = fn
}

// PrePrimes returns the wheel base primes (2, 3, 5) that fall inside the
// range. They are counted by Run but never appear in emitted segments.
func (s *Sieve) PrePrimes() []uint64 { return s.prePrimes }

// SieveBytes returns the effective (clamped) segment size.
func (s *Sieve) SieveBytes() uint32 { return s.sieveBytes }

// Count returns the number of primes found so far.
func (s *Sieve) Count() uint64 { return s.count }

// Aborted reports whether Run returned early on a stop request.
func (s *Sieve) Aborted() bool { return s.aborted }

// DigestSum returns the xxh64 fingerprint (EnableDigest must have been
// called before Run).
func (s *Sieve) DigestSum() uint64 { return s.digest.Sum64() }

// Run sieves the whole range. Pure CPU-bound computation; the only exit
// paths are completion and the control stop flag at a segment boundary.
func (s *Sieve) Run() {
	s.gen = newGenerator(utils.Isqrt(s.stop))
	s.pending = s.gen.next()
	s.count += uint64(len(s.prePrimes))

	span := uint64(s.sieveBytes) * 30
	first := true

	for {
		if control.ShouldStop() {
			s.aborted = true
			return
		}

		// Largest value covered by this segment; saturates on the final
		// segment (and on 2^64 wraparound near the top of the range).
		segMax := s.low + span + 1
		last := segMax < s.low || segMax >= s.stop
		if last {
			segMax = s.stop
		}

		// Register sieving primes that become relevant in this segment.
		for s.pending != 0 && s.pending*s.pending <= segMax {
			s.route(s.pending)
			s.pending = s.gen.next()
		}

		buf := s.buf
		for i := range buf {
			buf[i] = 0xff
		}
		s.small.crossOff(buf)
		s.medium.crossOff(buf)
		s.big.crossOff(buf)
		s.big.advance()

		n := uint64(s.sieveBytes)
		if rem := (s.stop-s.low)/30 + 1; rem < n {
			n = rem
		}
		seg := buf[:n]
		if first {
			s.maskLow(seg)
			first = false
		}
		if last {
			s.maskHigh(seg)
		}

		s.count += popcount(seg)
		if s.digest != nil {
			_, _ = s.digest.Write(seg)
		}
		if s.emit != nil {
			s.emit(s.low, seg)
		}

		if last {
			return
		}
		s.low += span
	}
}

// route dispatches one sieving prime to its classifier. The split is by
// how the prime's multiples relate to the segment size: several per
// segment (small), less than one segment per hop (medium), or one-or-zero
// per segment (big).
func (s *Sieve) route(prime uint64) {
	switch {
	case prime <= s.small.limit:
		s.small.add(prime, s.low)
	case prime/30 <= uint64(s.mediumSP):
		s.medium.add(prime, s.low)
	default:
		s.big.add(prime, s.low)
	}
}

// maskLow clears the bits of the first segment that fall below start.
func (s *Sieve) maskLow(seg []byte) {
	for i := range seg {
		base := s.low + uint64(i)*30
		if base+BitValues[0] >= s.start {
			return
		}
		if base+BitValues[7] < s.start {
			seg[i] = 0
			continue
		}
		var keep byte
		for j := range BitValues {
			if base+BitValues[j] >= s.start {
				keep |= 1 << j
			}
		}
		seg[i] &= keep
	}
}

// maskHigh clears the trailing bits that exceed stop. Two bytes can carry
// such bits: the byte containing stop, and the one before it, whose bit 7
// reaches base+31 and overshoots exactly when stop lands on a multiple
// of 30.
func (s *Sieve) maskHigh(seg []byte) {
	k := (s.stop - s.low) / 30
	i := uint64(0)
	if k > 0 {
		i = k - 1
	}
	for ; i <= k && i < uint64(len(seg)); i++ {
		base := s.low + i*30
		var keep byte
		for j := range BitValues {
			// base+BitValues[j] <= stop, written overflow-safe: base can
			// sit within 31 of 2^64 on the topmost segment.
			if s.stop-base >= BitValues[j] {
				keep |= 1 << j
			}
		}
		seg[i] &= keep
	}
}

// popcount counts set bits, eight sieve bytes at a time.
func popcount(b []byte) uint64 {
	var c int
	i := 0
	for ; i+8 <= len(b); i += 8 {
		c += bits.OnesCount64(utils.Load64(b[i:]))
	}
	for ; i < len(b); i++ {
		c += bits.OnesCount8(b[i])
	}
	return uint64(c)
}
