package wheel

import (
	"math"
	"testing"
)

// captureStore records the single triple an Add call hands over.
type captureStore struct {
	called        bool
	sievingPrime  uint32
	multipleIndex uint32
	wheelIndex    uint32
}

func (c *captureStore) Store(sievingPrime, multipleIndex, wheelIndex uint32) {
	if c.called {
		panic("Store called twice")
	}
	c.called = true
	c.sievingPrime = sievingPrime
	c.multipleIndex = multipleIndex
	c.wheelIndex = wheelIndex
}

// ============================================================================
// CONSTRUCTION BOUNDS
// ============================================================================

func TestNewEngineBounds(t *testing.T) {
	if _, err := NewEngine(Modulo30, 1<<40, MaxSieveSize()); err != nil {
		t.Fatalf("max sieve size rejected: %v", err)
	}
	if _, err := NewEngine(Modulo30, 1<<40, MaxSieveSize()+1); err != ErrSieveSizeTooLarge {
		t.Fatalf("oversized sieve: got %v", err)
	}
	for _, w := range []*Wheel{Modulo30, Modulo210} {
		if _, err := NewEngine(w, MaxStop(w), 1<<15); err != nil {
			t.Fatalf("modulo %d: max stop rejected: %v", w.Modulo, err)
		}
		if _, err := NewEngine(w, MaxStop(w)+1, 1<<15); err != ErrStopTooLarge {
			t.Fatalf("modulo %d: oversized stop: got %v", w.Modulo, err)
		}
	}
}

func TestMaxStop(t *testing.T) {
	if got, want := MaxStop(Modulo30), uint64(math.MaxUint64)-6*uint64(math.MaxUint32); got != want {
		t.Fatalf("Modulo30: got %d, want %d", got, want)
	}
	if got, want := MaxStop(Modulo210), uint64(math.MaxUint64)-10*uint64(math.MaxUint32); got != want {
		t.Fatalf("Modulo210: got %d, want %d", got, want)
	}
}

// ============================================================================
// REGISTRATION SEMANTICS
// ============================================================================

// firstMultiple brute-forces the value Add must target: the smallest
// prime*q with q coprime to the wheel modulo, above the segment floor and
// at least prime squared.
func firstMultiple(w *Wheel, prime, segmentLow, stop uint64) uint64 {
	floor := segmentLow + 6
	q := floor/prime + 1
	if q < prime {
		q = prime
	}
	for ; ; q++ {
		if gcd(uint32(q%uint64(w.Modulo)), w.Modulo) != 1 {
			continue
		}
		if m := prime * q; m > stop {
			return 0
		}
		return prime * q
	}
}

func TestAddAgainstBruteForce(t *testing.T) {
	const stop = 1 << 20
	primes := []uint64{7, 11, 13, 17, 19, 23, 29, 31, 37, 97, 101, 997}
	lows := []uint64{0, 30, 960, 32760, 1 << 19}

	for _, w := range []*Wheel{Modulo30, Modulo210} {
		engine, err := NewEngine(w, stop, 1<<15)
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		for _, p := range primes {
			for _, low := range lows {
				rec := &captureStore{}
				engine.Add(p, low, rec)

				want := firstMultiple(w, p, low, stop)
				if want == 0 {
					if rec.called {
						t.Fatalf("modulo %d p=%d low=%d: stored past stop", w.Modulo, p, low)
					}
					continue
				}
				if !rec.called {
					t.Fatalf("modulo %d p=%d low=%d: nothing stored, want multiple %d",
						w.Modulo, p, low, want)
				}
				if rec.sievingPrime != uint32(p/30) {
					t.Fatalf("modulo %d p=%d: sievingPrime %d", w.Modulo, p, rec.sievingPrime)
				}
				if got := uint64(rec.multipleIndex); got != (want-(low+6))/30 {
					t.Fatalf("modulo %d p=%d low=%d: mi %d, want %d",
						w.Modulo, p, low, got, (want-(low+6))/30)
				}

				// The wheel index must sit in the prime's class block and
				// its element must clear exactly the multiple's bit.
				base := w.offs[p%30]
				if rec.wheelIndex < base || rec.wheelIndex >= base+w.Size {
					t.Fatalf("modulo %d p=%d: wi %d outside class block [%d,%d)",
						w.Modulo, p, rec.wheelIndex, base, base+w.Size)
				}
				wantMask := uint8(^(uint32(1) << bitPos[uint32(want%30)]))
				if got := w.Elem[rec.wheelIndex].UnsetBit; got != wantMask {
					t.Fatalf("modulo %d p=%d low=%d: mask %#x, want %#x",
						w.Modulo, p, low, got, wantMask)
				}
			}
		}
	}
}

func TestAddClampsToSquare(t *testing.T) {
	engine, err := NewEngine(Modulo30, 1<<20, 1<<15)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	rec := &captureStore{}
	engine.Add(7, 0, rec) // 7, 14, ... precede 49 but carry smaller factors
	if !rec.called {
		t.Fatal("nothing stored")
	}
	if rec.multipleIndex != 1 || rec.wheelIndex != Modulo30.offs[7]+1 {
		t.Fatalf("got mi=%d wi=%d, want 1 %d", rec.multipleIndex, rec.wheelIndex, Modulo30.offs[7]+1)
	}
}

func TestAddDiscardsPastStop(t *testing.T) {
	engine, err := NewEngine(Modulo30, 100, 1<<15)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	// 7*14 = 98 is in range but its quotient hits wheel factors; the next
	// compatible multiple 7*17 = 119 is out.
	rec := &captureStore{}
	engine.Add(7, 90, rec)
	if rec.called {
		t.Fatalf("stored %d past stop", uint64(rec.multipleIndex))
	}

	// 11's remaining multiples start at 121 > 100.
	rec = &captureStore{}
	engine.Add(11, 90, rec)
	if rec.called {
		t.Fatal("stored a square past stop")
	}
}
