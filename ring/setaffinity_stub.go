//go:build !linux || tinygo

// setaffinity_stub.go
//
// Portable no-op so the print pipeline builds unchanged on targets
// without sched_setaffinity.

package ring

func setAffinity(int) {}
