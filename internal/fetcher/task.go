package fetcher

// Task is one URL-to-artifact unit of work. Immutable once enqueued.
type Task struct {
	// URL is the page to fetch.
	URL string

	// Artifact is the destination object name (page<N>.<ext>).
	Artifact string

	// Index is the task's 1-based position in the accepted batch.
	Index int
}

// Outcome is the terminal result of executing a Task.
type Outcome struct {
	Task     Task
	Written  int64
	Attempts int
	Err      error
}

// Success reports whether the task completed without error.
func (o Outcome) Success() bool {
	return o.Err == nil
}
