// relax.go
//
// cpuRelax backs busy-wait loops off politely. Per-arch PAUSE/WFE stubs
// are deliberately not carried: the print consumer spends its time in
// write(2), not in the spin, so the portable no-op costs nothing
// measurable and keeps every target buildable from pure Go.

package ring

// cpuRelax is a scheduling hint inside spin loops.
//
//go:nosplit
//go:inline
func cpuRelax() {}
