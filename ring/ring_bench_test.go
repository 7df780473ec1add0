// ring_bench_test.go
//
// Push/Pop micro-benchmarks. A fixed-capacity ring keeps every run
// L1-resident; when a path would fail (ring full or empty) the loop
// performs the opposite operation once and retries, one extra hop per
// capacity's worth of iterations.

package ring

import (
	"testing"
	"unsafe"
)

const benchCap = 1024

var dummy struct{}
var dummyPtr = unsafe.Pointer(&dummy)
var sink unsafe.Pointer // blocks DCE on Pop payloads

func BenchmarkPush(b *testing.B) {
	r := New(benchCap)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !r.Push(dummyPtr) {
			_ = r.Pop()
			r.Push(dummyPtr)
		}
	}
}

func BenchmarkPushPop(b *testing.B) {
	r := New(benchCap)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Push(dummyPtr)
		sink = r.Pop()
	}
}

func BenchmarkSPSC(b *testing.B) {
	r := New(benchCap)
	done := make(chan struct{})
	go func() {
		for i := 0; i < b.N; i++ {
			sink = r.PopWait()
		}
		close(done)
	}()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.PushWait(dummyPtr)
	}
	<-done
}
