// utils.go — low-level helpers shared by the sieve driver, printer & CLI.
package utils

import (
	"math"
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Tiny zero-alloc conversions
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// S2b converts a string to a []byte **without** allocation.
// ⚠️ The result must never be written to.
//
//go:nosplit
//go:inline
func S2b(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned 64-bit word from a byte slice.
// Used by the segment popcount loop (8 sieve bytes per iteration).
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

///////////////////////////////////////////////////////////////////////////////
// Integer Formatting — No fmt, No Reflection
///////////////////////////////////////////////////////////////////////////////

// AppendUint appends the decimal form of v to dst and returns the extended
// slice. This is the printer hot path: one call per emitted prime, zero
// allocations as long as dst has capacity.
//
//go:nosplit
//go:inline
func AppendUint(dst []byte, v uint64) []byte {
	var tmp [20]byte // max uint64 = 20 digits
	i := len(tmp)
	for v >= 10 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	i--
	tmp[i] = byte('0' + v)
	return append(dst, tmp[i:]...)
}

// Utoa formats v as a decimal string. Cold paths only (diagnostics, report).
func Utoa(v uint64) string {
	var tmp [20]byte
	b := AppendUint(tmp[:0], v)
	return string(b)
}

// Itoa formats v as a decimal string, cold paths only. The negation goes
// through v+1 so the minimum int survives the sign flip.
func Itoa(v int) string {
	if v < 0 {
		return "-" + Utoa(uint64(-(v+1))+1)
	}
	return Utoa(uint64(v))
}

// Hex64 formats v as 16 lowercase hex digits, fixed width, zero padded.
// Used for the bitmap fingerprint in the run report.
func Hex64(v uint64) string {
	const digits = "0123456789abcdef"
	var b [16]byte
	for i := 15; i >= 0; i-- {
		b[i] = digits[v&0xf]
		v >>= 4
	}
	return string(b[:])
}

///////////////////////////////////////////////////////////////////////////////
// Integer Math
///////////////////////////////////////////////////////////////////////////////

// Isqrt returns floor(sqrt(n)) for the full uint64 range.
// The float64 estimate is exact to within ±1 ULP of the true root, so two
// correction steps pin the floor even near 2^64 where float rounding
// overshoots.
//
//go:nosplit
//go:inline
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r > n/r {
		r--
	}
	for (r+1) != 0 && (r+1) <= n/(r+1) {
		r++
	}
	return r
}

///////////////////////////////////////////////////////////////////////////////
// Raw FD Writers — Diagnostics Without the fmt Machinery
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to stderr (fd 2). No locking, no
// buffering, no allocation beyond the string itself.
//
//go:nosplit
func PrintWarning(msg string) {
	_, _ = syscall.Write(2, S2b(msg))
}

// PrintInfo writes msg straight to stdout (fd 1).
//
//go:nosplit
func PrintInfo(msg string) {
	_, _ = syscall.Write(1, S2b(msg))
}
