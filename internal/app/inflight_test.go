package app

import (
	"sync"
	"testing"
)

func TestGuard_RejectsWhileInFlight(t *testing.T) {
	g := NewGuard()
	if !g.TryAcquire("appt-1") {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire("appt-1") {
		t.Fatal("second acquire for the same id should fail")
	}
	g.Release("appt-1")
	if !g.TryAcquire("appt-1") {
		t.Fatal("acquire after release should succeed")
	}
}

func TestGuard_DistinctEntitiesIndependent(t *testing.T) {
	g := NewGuard()
	if !g.TryAcquire("a") || !g.TryAcquire("b") || !g.TryAcquire("c") {
		t.Fatal("requests for distinct ids must not block each other")
	}
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	g := NewGuard()
	const workers = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("shared") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("exactly one concurrent acquire should win, got %d", wins)
	}
}
