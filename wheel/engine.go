// ============================================================================
// WHEEL-FACTORIZATION ENGINE
// ============================================================================
//
// The engine turns a sieving prime into its packed cross-off state: given
// the prime and the lower bound of the segment currently being sieved, Add
// computes the first multiple that is (a) greater than the segment's lower
// bound, (b) at least prime², and (c) not divisible by any wheel factor,
// then converts it to a segment-relative byte index plus wheel phase and
// hands the triple to the Store extension point.
//
// Storage strategy is the caller's business: the small/medium/large
// classifiers decide whether a record lives in a flat slice or a bucket
// list depending on how far in the future its next multiple falls. The
// engine itself is stateless except for the immutable sieving bound.

package wheel

import (
	"errors"
	"math"
)

// Store is the single extension point of the engine: persist one packed
// sieving-prime record for retrieval during the sieving pass. The engine
// never reads records back itself.
type Store interface {
	Store(sievingPrime, multipleIndex, wheelIndex uint32)
}

// Configuration errors, raised only at construction time. Nothing inside a
// sieving pass can fail.
var (
	// ErrSieveSizeTooLarge: the requested segment buffer exceeds the 2^23
	// byte maximum indexable by the packed record (see MaxSieveSize).
	ErrSieveSizeTooLarge = errors.New("wheel: sieve size exceeds the 2^23-byte packed-index maximum")

	// ErrStopTooLarge: the requested bound exceeds the value safely
	// representable without 64-bit overflow in Add (see Engine.MaxStop).
	ErrStopTooLarge = errors.New("wheel: stop exceeds 2^64 - 2^32 * maxFactor overflow margin")
)

// Engine is a wheel-parameterized registration engine bound to one sieve
// instance. Copiable by value; holds no mutable state.
type Engine struct {
	wheel *Wheel
	stop  uint64
}

// NewEngine validates the configuration and binds the engine to its upper
// sieving bound. sieveBytes is the segment buffer size the caller will
// sieve with; it must not exceed MaxSieveSize, and stop must not exceed
// MaxStop for the chosen wheel. Both failures are fatal to construction
// and unrecoverable by design.
func NewEngine(w *Wheel, stop uint64, sieveBytes uint32) (Engine, error) {
	if sieveBytes > MaxSieveSize() {
		return Engine{}, ErrSieveSizeTooLarge
	}
	if stop > MaxStop(w) {
		return Engine{}, ErrStopTooLarge
	}
	return Engine{wheel: w, stop: stop}, nil
}

// MaxStop returns the largest upper bound the engine accepts for the given
// wheel: 2^64 - 2^32 * maxFactor. Add advances a multiple by at most
// prime * maxFactor with prime < 2^32, so bounds above this line could
// overflow mid-registration.
func MaxStop(w *Wheel) uint64 {
	return math.MaxUint64 - uint64(math.MaxUint32)*uint64(w.MaxFactor())
}

// Wheel returns the engine's table set (shared, read-only).
func (e *Engine) Wheel() *Wheel { return e.wheel }

// Stop returns the inclusive upper sieving bound.
func (e *Engine) Stop() uint64 { return e.stop }

// Add registers prime against the segment starting at segmentLow. The
// driver calls this exactly once per sieving prime, before the segment
// containing the prime's first relevant multiple. If every remaining
// multiple exceeds the bound the prime is discarded and nothing is stored.
//
// segmentLow must be a multiple of 30; the +6 shift below aligns it with
// the byte numbering convention (byte i covers segmentLow + i*30 + 7
// through segmentLow + i*30 + 31, so offsets within a byte span 1..25
// after the shift).
func (e *Engine) Add(prime, segmentLow uint64, s Store) {
	segmentLow += 6

	// First multiple beyond the segment's lower bound.
	quotient := segmentLow/prime + 1
	multiple := prime * quotient
	if multiple > e.stop {
		return // prime contributes nothing further
	}

	// No multiple below prime² needs crossing off: every smaller composite
	// has a smaller prime factor already responsible for it.
	if square := prime * prime; multiple < square {
		multiple = square
		quotient = prime
	}

	// Advance to the next multiple whose quotient is coprime to the wheel
	// modulo; only those multiples have a bit in the sieve.
	init := &e.wheel.Init[quotient%uint64(e.wheel.Modulo)]
	multiple += prime * uint64(init.NextMultipleFactor)
	if multiple > e.stop {
		return
	}

	multipleIndex := uint32((multiple - segmentLow) / 30)
	wheelIndex := e.wheel.offs[prime%30] + uint32(init.WheelIndex)
	s.Store(uint32(prime/30), multipleIndex, wheelIndex)
}
