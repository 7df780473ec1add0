// pinned_consumer.go
//
// Low-latency SPSC consumer for the print pipeline.
//
//   • Dedicated OS thread, pinned to `core` (Linux; no-op elsewhere).
//   • Hot-spins (tight loop) while the producer's hot flag is up — the
//     sieving phase runs with GC disabled, so the consumer must never
//     park in the runtime while segments are in flight.
//   • Drops to a cpuRelax spin once hot clears.
//   • Exits when *stop is set AND the ring has drained, so the tail of
//     the range is always printed; closes `done` exactly once.
//
// hot flag contract:
//     Producer                 Consumer
//     --------                 ------------------------------
//     Store 1   ─────────▶     read (stay hot-spin)
//     ...push segments...
//     Store 0 + stop 1  ─▶     drain ring, then return

package ring

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// PinnedConsumer drains r until *stop is set and the ring is empty.
func PinnedConsumer(
	core int,
	r *Ring,
	stop, hot *uint32,
	fn func(unsafe.Pointer),
	done chan<- struct{},
) {
	go func() {
		runtime.LockOSThread()
		setAffinity(core) // stub on non-Linux
		defer func() {
			runtime.UnlockOSThread()
			close(done)
		}()

		for {
			if p := r.Pop(); p != nil {
				fn(p)
				continue
			}

			// Only exit on an empty ring: stop is raised by the producer
			// after its last push, so drain-then-check is race-free in
			// the SPSC setting.
			if atomic.LoadUint32(stop) != 0 {
				if p := r.Pop(); p != nil {
					fn(p)
					continue
				}
				return
			}

			if atomic.LoadUint32(hot) == 0 {
				cpuRelax()
			}
		}
	}()
}
