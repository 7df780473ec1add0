// ============================================================================
// PACKED SIEVING-PRIME RECORD
// ============================================================================
//
// A Prime is one sieving prime's current cross-off state, packed into two
// 32-bit words for cache density: the inner sieving loop walks millions of
// these per segment, and 8 bytes per record puts 8 records on every cache
// line.
//
// Word layout:
//   indexes      [22:0]  multipleIndex — byte offset of the next multiple
//                        inside the active segment (23 bits)
//   indexes      [31:23] wheelIndex    — phase inside the wheel tables
//                        (9 bits)
//   sievingPrime         prime / 30    — the sieve stores 30 numbers per
//                        byte, so the quotient is all the cross-off
//                        arithmetic ever needs
//
// The 23-bit multiple index is what bounds the maximum segment size to
// 2^23 bytes. Width violations are caller bugs (segment size inconsistent
// with the packing), not runtime conditions: setters trap unconditionally.

package wheel

const (
	indexBits = 23 // multipleIndex width; bounds MaxSieveSize

	// MaxMultipleIndex and MaxWheelIndex are the inclusive packing limits.
	MaxMultipleIndex = 1<<indexBits - 1
	MaxWheelIndex    = 1<<9 - 1
)

// MaxSieveSize returns the largest segment byte size the packed record can
// index: 2^23 bytes.
func MaxSieveSize() uint32 {
	return 1 << indexBits
}

// Prime is the packed sieving-prime record. Records are mutated in place as
// sieving advances; they are never reallocated, only overwritten.
type Prime struct {
	indexes      uint32 // multipleIndex | wheelIndex<<23
	sievingPrime uint32 // prime / 30
}

// Set overwrites the packed index word. Both values must respect their bit
// widths; violations trap (configuration bug upstream).
//
//go:nosplit
//go:inline
func (p *Prime) Set(multipleIndex, wheelIndex uint32) {
	if multipleIndex > MaxMultipleIndex {
		panic("wheel: multipleIndex exceeds 23 bits")
	}
	if wheelIndex > MaxWheelIndex {
		panic("wheel: wheelIndex exceeds 9 bits")
	}
	p.indexes = multipleIndex | wheelIndex<<indexBits
}

// SetAll overwrites the packed index word and the sieving prime.
//
//go:nosplit
//go:inline
func (p *Prime) SetAll(sievingPrime, multipleIndex, wheelIndex uint32) {
	p.Set(multipleIndex, wheelIndex)
	p.sievingPrime = sievingPrime
}

// SetMultipleIndex ORs the multiple-index bits into the packed word. The
// caller must have cleared them first (the classifier reuse path always
// re-packs via Set, so in practice the low bits are zero here).
//
//go:nosplit
//go:inline
func (p *Prime) SetMultipleIndex(multipleIndex uint32) {
	if multipleIndex > MaxMultipleIndex {
		panic("wheel: multipleIndex exceeds 23 bits")
	}
	p.indexes |= multipleIndex
}

// SetWheelIndex replaces the wheel-index bits, preserving the multiple
// index.
//
//go:nosplit
//go:inline
func (p *Prime) SetWheelIndex(wheelIndex uint32) {
	if wheelIndex > MaxWheelIndex {
		panic("wheel: wheelIndex exceeds 9 bits")
	}
	p.indexes = p.indexes&MaxMultipleIndex | wheelIndex<<indexBits
}

// SievingPrime returns prime / 30.
//
//go:nosplit
//go:inline
func (p *Prime) SievingPrime() uint32 { return p.sievingPrime }

// MultipleIndex unpacks the low 23 bits.
//
//go:nosplit
//go:inline
func (p *Prime) MultipleIndex() uint32 { return p.indexes & MaxMultipleIndex }

// WheelIndex unpacks the high 9 bits.
//
//go:nosplit
//go:inline
func (p *Prime) WheelIndex() uint32 { return p.indexes >> indexBits }
