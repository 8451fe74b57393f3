// Package leaktest provides a goroutine leak check for tests that
// start background workers.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker records the goroutine count at construction and
// compares against it later.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker snapshots the current goroutine count. Call it
// before starting the code under test.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test when more than tolerance goroutines remain
// beyond the initial snapshot. Stray goroutines get a short grace
// period to exit first.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		runtime.Gosched()
		if runtime.NumGoroutine()-g.before <= tolerance {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	after := runtime.NumGoroutine()
	g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, after, tolerance)
}

// CheckNoGoroutineLeak runs fn and fails the test if any goroutine it
// started is still running afterwards.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
