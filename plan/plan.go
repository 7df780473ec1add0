// Package plan splits a sieving range into disjoint per-worker subranges.
// Interior boundaries land on the 30-number byte grid, so every worker's
// boundary masking stays a single-byte affair and no value is covered
// twice.
package plan

// minWorkerSpan is the smallest range worth a dedicated worker. Below
// about a million numbers the sieving-prime registration overhead
// dominates, so the split shrinks instead of fragmenting further.
const minWorkerSpan = 1 << 20

// Subranges splits [start, stop] into at most n disjoint, contiguous
// subranges covering the whole interval. It always returns at least one.
func Subranges(start, stop uint64, n int) [][2]uint64 {
	span := stop - start
	if n < 1 {
		n = 1
	}
	for n > 1 && span/uint64(n) < minWorkerSpan {
		n--
	}

	out := make([][2]uint64, 0, n)
	chunk := span/uint64(n) + 1
	chunk += 30 - chunk%30
	lo := start
	for i := 0; i < n && lo <= stop; i++ {
		hi := lo + chunk - 1
		if hi > stop || hi < lo || i == n-1 {
			hi = stop
		}
		out = append(out, [2]uint64{lo, hi})
		if hi == stop {
			break
		}
		lo = hi + 1
	}
	return out
}
