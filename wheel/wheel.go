// ============================================================================
// WHEEL: MODULO-30/210 FACTORIZATION TABLES
// ============================================================================
//
// Wheel factorization lets the sieve of Eratosthenes skip every multiple of
// the wheel's base primes (2,3,5 for the modulo-30 wheel; 2,3,5,7 for the
// modulo-210 wheel) without ever materializing them. One sieve byte encodes
// 30 numbers: the 8 bits correspond to the residues 7,11,13,17,19,23,29,31
// of the byte's base value, so numbers divisible by 2, 3 or 5 simply have
// no bit.
//
// Two read-only table sets drive the engine:
//   - Init: per quotient-residue entry giving the factor that advances a
//     multiple candidate to the next wheel-compatible value, plus the
//     resulting wheel phase.
//   - Elem: per wheel-index entry giving the bitmask that clears exactly
//     one bit, the multiple advance factor, the byte-index correction term
//     and the signed phase delta.
//
// Both sets are materialized once at program initialization from the wheel
// parameters and are never mutated afterwards; concurrent sieve instances
// share them safely.
//
// Layout of Elem: 8 blocks (one per residue class of the sieving prime
// modulo 30, in the order 7,11,13,17,19,23,29,1), each of Size phases. A
// record's wheel index cycles inside its class block and returns to the
// block start after one full wheel rotation.

package wheel

// ============================================================================
// TABLE ENTRY TYPES
// ============================================================================

// Init is the per-residue initialization entry, indexed by
// quotient mod Modulo.
type Init struct {
	NextMultipleFactor uint8 // quotient delta to the next wheel-compatible multiple
	WheelIndex         uint8 // phase of that multiple inside the class block
}

// Element is the per-wheel-index transition entry used by the cross-off
// inner loop.
type Element struct {
	UnsetBit           uint8 // AND-mask clearing exactly one sieve bit
	NextMultipleFactor uint8 // quotient delta to the following multiple
	Correct            uint8 // byte-index correction (sievingPrime = prime/30 truncation)
	Next               int8  // signed wheel-index delta
}

// Wheel bundles one complete table set. Two fixed instances exist:
// Modulo30 and Modulo210.
type Wheel struct {
	Modulo uint32
	Size   uint32    // phases per residue class (8 or 48)
	Init   []Init    // len == Modulo
	Elem   []Element // len == 8*Size
	offs   [30]uint32
}

// invalidOffset pads the offs table for residues that can never belong to a
// sieving prime (multiples of 2, 3 or 5).
const invalidOffset = ^uint32(0)

// classOrder fixes the Elem block order; offs maps prime%30 into it.
var classOrder = [8]uint32{7, 11, 13, 17, 19, 23, 29, 1}

// bitPos maps the modulo-30 residue of a multiple to its bit position.
// Residue 1 is bit 7 (the byte's +31 slot).
var bitPos = map[uint32]uint32{7: 0, 11: 1, 13: 2, 17: 3, 19: 4, 23: 5, 29: 6, 1: 7}

// The two fixed wheels. Built once in init, read-only afterwards.
var (
	Modulo30  = build(30)  // skips multiples of 2, 3, 5
	Modulo210 = build(210) // skips multiples of 2, 3, 5, 7
)

// ============================================================================
// TABLE CONSTRUCTION (PROGRAM INITIALIZATION ONLY)
// ============================================================================

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// build materializes the full table set for one wheel modulo. Runs once per
// wheel at program start; everything it produces is immutable afterwards.
func build(modulo uint32) *Wheel {
	// Residues coprime to the wheel modulo, ascending. These are the valid
	// quotient phases: a multiple prime*quotient avoids every wheel factor
	// exactly when the quotient residue is coprime to the modulo.
	var coprime []uint32
	for r := uint32(1); r < modulo; r++ {
		if gcd(r, modulo) == 1 {
			coprime = append(coprime, r)
		}
	}
	size := uint32(len(coprime)) // 8 for modulo 30, 48 for modulo 210

	w := &Wheel{
		Modulo: modulo,
		Size:   size,
		Init:   make([]Init, modulo),
		Elem:   make([]Element, 8*size),
	}

	// Init: distance from each residue to the next coprime residue, and the
	// phase of the landing spot.
	phase := make(map[uint32]uint8, size)
	for i, r := range coprime {
		phase[r] = uint8(i)
	}
	for r := uint32(0); r < modulo; r++ {
		f := uint32(0)
		for gcd((r+f)%modulo, modulo) != 1 {
			f++
		}
		w.Init[r] = Init{
			NextMultipleFactor: uint8(f),
			WheelIndex:         phase[(r+f)%modulo],
		}
	}

	// Elem: for a sieving prime p = 30s + pr at quotient residue qr, the
	// current multiple's byte holds bit (pr*qr)%30 and the next
	// wheel-compatible multiple is p*(q+g) with g the gap to the following
	// coprime residue. A multiple m sits in byte (m-6)/30, not m/30: a
	// residue-1 multiple is bit 7 of the previous byte (base+31). On that
	// shifted grid the byte-index delta factors as g*s + correct with
	//   correct = (pr*g + (pr*qr+24)%30 - (pr*(qr+g)+24)%30) / 30
	// which absorbs the truncation of sievingPrime = p/30. The +24 is the
	// -6 shift folded into the residues.
	for c, pr := range classOrder {
		for s, qr := range coprime {
			var g uint32
			if s == len(coprime)-1 {
				g = coprime[0] + modulo - qr // wrap: qr -> modulo+1
			} else {
				g = coprime[s+1] - qr
			}
			bit := bitPos[(pr*qr)%30]
			correct := (pr*g + (pr*qr+24)%30 - (pr*(qr+g)+24)%30) / 30
			next := int8(1)
			if s == len(coprime)-1 {
				next = int8(1 - int32(size))
			}
			w.Elem[uint32(c)*size+uint32(s)] = Element{
				UnsetBit:           uint8(^(uint32(1) << bit)),
				NextMultipleFactor: uint8(g),
				Correct:            uint8(correct),
				Next:               next,
			}
		}
	}

	// offs: residue class of a sieving prime modulo 30 -> Elem block base.
	for i := range w.offs {
		w.offs[i] = invalidOffset
	}
	for c, pr := range classOrder {
		w.offs[pr] = uint32(c) * size
	}
	return w
}

// ============================================================================
// TABLE ACCESS
// ============================================================================

// MaxFactor returns the largest NextMultipleFactor of the wheel: the
// phase-0 entry, i.e. the gap from quotient residue 1 to the next coprime
// residue (6 for modulo 30, 10 for modulo 210). Sizes the 64-bit overflow
// safety margin.
func (w *Wheel) MaxFactor() uint32 {
	return uint32(w.Elem[0].NextMultipleFactor)
}

// Unset crosses off the current multiple of sievingPrime and advances the
// record to its next wheel-compatible multiple. This is the per-multiple
// inner step of the sieving pass; it is branch-free by construction.
//
//go:nosplit
//go:inline
func (w *Wheel) Unset(sieve []byte, sievingPrime uint32, multipleIndex, wheelIndex *uint32) {
	e := &w.Elem[*wheelIndex]
	sieve[*multipleIndex] &= e.UnsetBit
	*multipleIndex += uint32(e.NextMultipleFactor)*sievingPrime + uint32(e.Correct)
	*wheelIndex += uint32(int32(e.Next))
}
