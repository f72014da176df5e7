package progress

import "sync/atomic"

// Tracker counts successfully completed tasks for one batch run.
//
// The counter only moves forward and never exceeds the fixed total; a new
// run gets a new Tracker. A single atomic integer is the only shared state,
// so increments are linearizable without a lock.
type Tracker struct {
	total     int
	completed atomic.Int64
}

// NewTracker creates a tracker for a batch of total tasks.
// The caller guarantees total is at least 1.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total}
}

// RecordSuccess increments the completed count by one and returns the new
// value. Called exactly once per successfully completed task.
func (t *Tracker) RecordSuccess() int {
	return int(t.completed.Add(1))
}

// Completed returns the current completed count.
func (t *Tracker) Completed() int {
	return int(t.completed.Load())
}

// Total returns the fixed batch size.
func (t *Tracker) Total() int {
	return t.total
}

// Percentage returns completion as a value in [0, 100].
func (t *Tracker) Percentage() float64 {
	return float64(t.completed.Load()) / float64(t.total) * 100
}
