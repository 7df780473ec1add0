// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global sieve tunables & segment sizing
//
// Purpose:
//   - Defines the compile-time configuration shared by the wheel engine,
//     the bucket allocator and the segmented driver.
//   - Encodes the sizing relationships that keep the packed 23-bit
//     multiple-index representation valid for every classifier.
//
// Notes:
//   - Cache-friendly sizing with power-of-2 alignment throughout
//   - Segment defaults target the L1 data cache; the hard ceiling is set
//     by the packed record format, not by available memory
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Segment Sizing ──────────────────────────────

const (
	// DefaultSieveBytes is the per-segment buffer size used when the user
	// does not override it. 32 KiB fits the L1 data cache of every CPU we
	// target, and with 30 numbers per byte one segment covers 983,040
	// integers per pass.
	DefaultSieveBytes = 1 << 15

	// MinSieveBytes keeps degenerate configurations out of the classifier
	// threshold math. 1 KiB still covers 30,720 numbers per segment.
	MinSieveBytes = 1 << 10

	// MaxSieveBytes is the driver-level ceiling, deliberately below the
	// 2^23 packed-index hard limit. Medium sieving primes may register a
	// first multiple up to two segments ahead, so the driver leaves one
	// doubling of headroom inside the 23-bit multiple-index budget.
	MaxSieveBytes = 1 << 22
)

// Compile-time guards: segment sizes must stay powers of two, since the
// large-prime classifier replaces division by shift/mask arithmetic.
var _ [-int(DefaultSieveBytes & (DefaultSieveBytes - 1))]byte
var _ [-int(MinSieveBytes & (MinSieveBytes - 1))]byte
var _ [-int(MaxSieveBytes & (MaxSieveBytes - 1))]byte

// ─────────────────────────── Classifier Thresholds ─────────────────────────

const (
	// SmallFactorNum/SmallFactorDen bound the small-prime classifier:
	// primes up to sieveBytes*3/4 have several multiples per segment and
	// are crossed off with the tight in-buffer loop.
	SmallFactorNum = 3
	SmallFactorDen = 4

	// MediumShift bounds the medium-prime classifier: sieving primes
	// (prime/30) up to sieveBytes>>MediumShift advance by strictly less
	// than one segment per cross-off, which is what makes the in-place
	// subtract-and-continue bookkeeping of the medium path sound.
	MediumShift = 4
)

// ───────────────────────────── Bucket Allocator ────────────────────────────

const (
	// BucketSize is the record capacity of one bucket node. 1024 packed
	// 8-byte records give an 8 KiB payload: big enough that node-link
	// overhead vanishes, small enough that a freshly reused node is still
	// warm in L2.
	BucketSize = 1024

	// BucketChunk is how many bucket nodes the arena grows by at a time.
	// Chunked growth keeps node addresses stable (links are raw pointers)
	// while amortizing allocation to one call per 64 nodes.
	BucketChunk = 64
)

var _ [-int(BucketSize & (BucketSize - 1))]byte

// ───────────────────────────── Output Pipeline ──────────────────────────────

const (
	// RingSize is the depth of the SPSC segment ring between the sieve
	// producer and the pinned print consumer. 8 in-flight segments absorb
	// write() stalls without letting the working set leave L2.
	RingSize = 8

	// PrintBufBytes is the userspace buffer for decoded prime output.
	// 64 KiB amortizes one write(2) over thousands of printed primes.
	PrintBufBytes = 1 << 16
)

var _ [-int(RingSize & (RingSize - 1))]byte
