//go:build linux && !tinygo

// setaffinity_linux.go
//
// Linux-only binding for `sched_setaffinity(2)` that pins **this** OS
// thread to a single logical CPU. Pinning the print consumer next to the
// producing sieve worker keeps the segment blocks' cache lines local.
//
// Design notes
// ------------
//   • A compile-time array `cpuMasks` pre-defines one `uintptr` bitmask
//     for every logical CPU 0–63; the kernel sees a contiguous 8-byte
//     buffer, exactly what `sched_setaffinity` expects on 64-bit.
//   • CPUs ≥ 64 are ignored; the fast path stays allocation-free.
//   • Errors are deliberately swallowed: under cgroup CPU masks the call
//     may return EPERM/EINVAL and the fallback is simply "no pin".

package ring

import (
	"syscall"
	"unsafe"
)

// Pre-computed one-word affinity masks for logical CPUs 0-63.
var cpuMasks = func() (m [64][1]uintptr) {
	for i := range m {
		m[i][0] = 1 << i
	}
	return
}()

// setAffinity pins the *current thread* to `cpu` (0-based). Out-of-range
// indices are ignored for portability.
func setAffinity(cpu int) {
	if cpu < 0 || cpu >= len(cpuMasks) {
		return
	}
	mask := &cpuMasks[cpu]
	_, _, _ = syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 → current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(mask)),
	)
}
