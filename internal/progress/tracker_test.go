package progress

import (
	"sync"
	"testing"
)

func TestTrackerRecordSuccess(t *testing.T) {
	tracker := NewTracker(4)

	if got := tracker.RecordSuccess(); got != 1 {
		t.Errorf("first RecordSuccess = %d, want 1", got)
	}
	if got := tracker.RecordSuccess(); got != 2 {
		t.Errorf("second RecordSuccess = %d, want 2", got)
	}
	if tracker.Completed() != 2 {
		t.Errorf("Completed = %d, want 2", tracker.Completed())
	}
	if tracker.Total() != 4 {
		t.Errorf("Total = %d, want 4", tracker.Total())
	}
}

func TestTrackerPercentage(t *testing.T) {
	tracker := NewTracker(8)
	tracker.RecordSuccess()
	tracker.RecordSuccess()

	if got := tracker.Percentage(); got != 25 {
		t.Errorf("Percentage = %v, want 25", got)
	}
}

func TestTrackerConcurrentIncrements(t *testing.T) {
	const goroutines = 16
	const perGoroutine = 100

	tracker := NewTracker(goroutines * perGoroutine)
	seen := make(map[int]bool)
	var mu sync.Mutex

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				v := tracker.RecordSuccess()
				mu.Lock()
				if seen[v] {
					t.Errorf("duplicate counter value %d", v)
				}
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if tracker.Completed() != goroutines*perGoroutine {
		t.Errorf("Completed = %d, want %d", tracker.Completed(), goroutines*perGoroutine)
	}
	if tracker.Percentage() != 100 {
		t.Errorf("Percentage = %v, want 100", tracker.Percentage())
	}
}
