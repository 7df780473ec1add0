// control.go — Global control flags for sieve workers and the print consumer
// ============================================================================
// RUN CONTROL ORCHESTRATION
// ============================================================================
//
// Control provides the lightweight global signaling used to coordinate the
// sieving phase: the CLI signal handler requests shutdown, and every sieve
// worker polls the stop flag between segments. The core cross-off loops
// contain no cancellation points (pure CPU-bound computation); a segment is
// the unit of interruption.
//
// Architecture overview:
//   • Global hot/stop flags for lock-free inter-thread communication
//   • Hot flag marks the GC-disabled production sieving phase
//   • Zero-allocation flag access for segment-boundary polling
//   • Graceful shutdown: workers finish the current segment, then return
//
// Safety guarantees:
//   • Race-free flag access via atomic loads/stores
//   • Deterministic shutdown behavior across all workers

package control

import "sync/atomic"

// ============================================================================
// GLOBAL STATE MANAGEMENT
// ============================================================================

var (
	hot  uint32 // 1 = GC-disabled sieving phase active
	stop uint32 // 1 = finish current segment and return
)

// ============================================================================
// PHASE SIGNALING
// ============================================================================

// ForceHot marks entry into the production sieving phase. Called once by
// the orchestrator after GC has been disabled and workers are launched.
//
//go:nosplit
//go:inline
func ForceHot() {
	atomic.StoreUint32(&hot, 1)
}

// Cool marks the end of the sieving phase, before GC is re-enabled.
//
//go:nosplit
//go:inline
func Cool() {
	atomic.StoreUint32(&hot, 0)
}

// ============================================================================
// SHUTDOWN COORDINATION
// ============================================================================

// Shutdown requests graceful termination. Workers observe it at the next
// segment boundary; partial results are still reported.
//
//go:nosplit
//go:inline
func Shutdown() {
	atomic.StoreUint32(&stop, 1)
}

// ShouldStop reports whether a shutdown has been requested. Polled once
// per segment by each sieve worker.
//
//go:nosplit
//go:inline
func ShouldStop() bool {
	return atomic.LoadUint32(&stop) != 0
}

// ============================================================================
// FLAG ACCESS (CONSUMER INTEGRATION)
// ============================================================================

// Flags returns direct pointers to the global coordination flags for the
// pinned ring consumer, which polls them without function call overhead.
//
// Memory safety: returned pointers remain valid for application lifetime.
//
//go:nosplit
//go:inline
func Flags() (*uint32, *uint32) {
	return &stop, &hot
}
