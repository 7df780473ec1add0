package wheel

import (
	"math/bits"
	"testing"
)

// ============================================================================
// TABLE CONSTRUCTION INVARIANTS
// ============================================================================

func coprimeResidues(modulo uint32) []uint32 {
	var out []uint32
	for r := uint32(1); r < modulo; r++ {
		if gcd(r, modulo) == 1 {
			out = append(out, r)
		}
	}
	return out
}

func TestBuildShape(t *testing.T) {
	cases := []struct {
		w      *Wheel
		modulo uint32
		size   uint32
	}{
		{Modulo30, 30, 8},
		{Modulo210, 210, 48},
	}
	for _, c := range cases {
		if c.w.Modulo != c.modulo {
			t.Fatalf("modulo: got %d, want %d", c.w.Modulo, c.modulo)
		}
		if c.w.Size != c.size {
			t.Fatalf("size: got %d, want %d", c.w.Size, c.size)
		}
		if len(c.w.Init) != int(c.modulo) {
			t.Fatalf("len(Init): got %d, want %d", len(c.w.Init), c.modulo)
		}
		if len(c.w.Elem) != int(8*c.size) {
			t.Fatalf("len(Elem): got %d, want %d", len(c.w.Elem), 8*c.size)
		}
	}
}

func TestMaxFactor(t *testing.T) {
	if got := Modulo30.MaxFactor(); got != 6 {
		t.Fatalf("Modulo30.MaxFactor: got %d, want 6", got)
	}
	if got := Modulo210.MaxFactor(); got != 10 {
		t.Fatalf("Modulo210.MaxFactor: got %d, want 10", got)
	}
}

// The first entry of the modulo-30 table is a fixed point of the whole
// construction: prime class 7 at quotient residue 1 clears bit 0 and hops
// 6 quotients ahead with a one-byte truncation correction.
func TestFirstElement30(t *testing.T) {
	e := Modulo30.Elem[0]
	want := Element{UnsetBit: 0xfe, NextMultipleFactor: 6, Correct: 1, Next: 1}
	if e != want {
		t.Fatalf("Elem[0]: got %+v, want %+v", e, want)
	}
}

func TestInitEntries(t *testing.T) {
	for _, w := range []*Wheel{Modulo30, Modulo210} {
		coprime := coprimeResidues(w.Modulo)
		phase := make(map[uint32]uint8, len(coprime))
		for i, r := range coprime {
			phase[r] = uint8(i)
		}
		for r := uint32(0); r < w.Modulo; r++ {
			in := w.Init[r]
			landing := (r + uint32(in.NextMultipleFactor)) % w.Modulo
			if gcd(landing, w.Modulo) != 1 {
				t.Fatalf("modulo %d residue %d: landing %d not coprime", w.Modulo, r, landing)
			}
			// Minimality: no smaller advance reaches a coprime residue.
			for f := uint32(0); f < uint32(in.NextMultipleFactor); f++ {
				if gcd((r+f)%w.Modulo, w.Modulo) == 1 {
					t.Fatalf("modulo %d residue %d: factor %d not minimal", w.Modulo, r, in.NextMultipleFactor)
				}
			}
			if in.WheelIndex != phase[landing] {
				t.Fatalf("modulo %d residue %d: wheel index %d, want %d",
					w.Modulo, r, in.WheelIndex, phase[landing])
			}
		}
	}
}

func TestElementEntries(t *testing.T) {
	for _, w := range []*Wheel{Modulo30, Modulo210} {
		coprime := coprimeResidues(w.Modulo)
		for c, pr := range classOrder {
			var gapSum, correctSum uint32
			for s, qr := range coprime {
				e := w.Elem[uint32(c)*w.Size+uint32(s)]

				// Exactly one bit cleared, and it is the bit of the
				// multiple's residue class.
				if bits.OnesCount8(e.UnsetBit) != 7 {
					t.Fatalf("modulo %d class %d phase %d: mask %#x clears %d bits",
						w.Modulo, pr, s, e.UnsetBit, 8-bits.OnesCount8(e.UnsetBit))
				}
				wantBit := bitPos[(pr*qr)%30]
				if e.UnsetBit != uint8(^(uint32(1) << wantBit)) {
					t.Fatalf("modulo %d class %d phase %d: mask %#x, want bit %d cleared",
						w.Modulo, pr, s, e.UnsetBit, wantBit)
				}

				// Phase delta: +1 everywhere except the wrap entry.
				if s == len(coprime)-1 {
					if e.Next != int8(1-int32(w.Size)) {
						t.Fatalf("modulo %d class %d: wrap delta %d", w.Modulo, pr, e.Next)
					}
				} else if e.Next != 1 {
					t.Fatalf("modulo %d class %d phase %d: delta %d", w.Modulo, pr, s, e.Next)
				}

				// Per-entry byte-offset check against the grid definition:
				// for the prime pr itself (quotient word zero) the hop from
				// multiple pr*qr to pr*(qr+g) moves exactly Correct bytes,
				// where a multiple m occupies byte (m-6)/30.
				g := uint32(e.NextMultipleFactor)
				if want := (pr*(qr+g)-6)/30 - (pr*qr-6)/30; uint32(e.Correct) != want {
					t.Fatalf("modulo %d class %d phase %d: correct %d, want %d",
						w.Modulo, pr, s, e.Correct, want)
				}

				gapSum += uint32(e.NextMultipleFactor)
				correctSum += uint32(e.Correct)
			}

			// One full rotation advances the quotient by exactly the wheel
			// modulo, and the truncation corrections absorb exactly the
			// prime's residue contribution: modulo/30 * pr bytes.
			if gapSum != w.Modulo {
				t.Fatalf("modulo %d class %d: gap sum %d", w.Modulo, pr, gapSum)
			}
			if want := w.Modulo / 30 * pr; correctSum != want {
				t.Fatalf("modulo %d class %d: correct sum %d, want %d", w.Modulo, pr, correctSum, want)
			}
		}
	}
}

func TestOffsets(t *testing.T) {
	for _, w := range []*Wheel{Modulo30, Modulo210} {
		for r := uint32(0); r < 30; r++ {
			off := w.offs[r]
			if gcd(r, 30) != 1 {
				if off != invalidOffset {
					t.Fatalf("modulo %d residue %d: offset %d for non-class residue", w.Modulo, r, off)
				}
				continue
			}
			if off == invalidOffset || off%w.Size != 0 || off >= 8*w.Size {
				t.Fatalf("modulo %d residue %d: bad block base %d", w.Modulo, r, off)
			}
		}
	}
}

// ============================================================================
// CROSS-OFF WALK
// ============================================================================

// walkMultiples follows the Elem transitions from a registered record and
// checks that the crossed values are exactly the successive multiples
// prime*q with q coprime to the wheel modulo.
func walkMultiples(t *testing.T, w *Wheel, prime uint64, steps int) {
	t.Helper()

	rec := &captureStore{}
	engine, err := NewEngine(w, 1<<40, 1<<15)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.Add(prime, 0, rec)
	if !rec.called {
		t.Fatalf("prime %d: nothing stored", prime)
	}

	mi := uint64(rec.multipleIndex)
	wi := rec.wheelIndex

	// First expected quotient: smallest q >= prime with gcd(q, modulo) == 1.
	q := prime
	for gcd(uint32(q%uint64(w.Modulo)), w.Modulo) != 1 {
		q++
	}

	for step := 0; step < steps; step++ {
		e := w.Elem[wi]
		bit := uint32(bits.TrailingZeros8(^e.UnsetBit))
		value := mi*30 + []uint64{7, 11, 13, 17, 19, 23, 29, 31}[bit]
		if want := prime * q; value != want {
			t.Fatalf("prime %d step %d: crossed %d, want %d", prime, step, value, want)
		}

		mi += uint64(e.NextMultipleFactor)*(prime/30) + uint64(e.Correct)
		wi += uint32(int32(e.Next))

		q += uint64(e.NextMultipleFactor)
		for gcd(uint32(q%uint64(w.Modulo)), w.Modulo) != 1 {
			t.Fatalf("prime %d step %d: quotient %d not coprime after hop", prime, step, q)
		}
	}
}

func TestWalkMultiples(t *testing.T) {
	for _, prime := range []uint64{7, 11, 29, 31, 97} {
		walkMultiples(t, Modulo30, prime, 20)
		walkMultiples(t, Modulo210, prime, 100)
	}
}

func TestUnsetClearsOneBit(t *testing.T) {
	sieve := make([]byte, 1<<10)
	for i := range sieve {
		sieve[i] = 0xff
	}
	// Prime 7 registered against [0,30): first multiple 49 sits in byte 1,
	// bit 4 (residue 19), at phase 1 of the class-7 block.
	mi, wi := uint32(1), uint32(1)
	Modulo30.Unset(sieve, 7/30, &mi, &wi)
	if sieve[1] != 0xef {
		t.Fatalf("sieve[1] = %#x, want %#x", sieve[1], 0xef)
	}
	for i, b := range sieve {
		if i != 1 && b != 0xff {
			t.Fatalf("sieve[%d] touched", i)
		}
	}
	// Next multiple is 77 = byte 2; sievingPrime 0 makes the hop pure
	// correction.
	if mi != 2 || wi != 2 {
		t.Fatalf("advance: mi=%d wi=%d, want 2 2", mi, wi)
	}
}
