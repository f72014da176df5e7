package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalTasks is the number of pages in the batch.
	TotalTasks int

	// Workers is the number of parallel workers.
	Workers int

	// Output is where to write progress output.
	// Default: os.Stdout
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// SourceList is the URL list being fetched (for display).
	SourceList string
}

// Reporter outputs human-readable progress information.
type Reporter struct {
	opts Options

	mu             sync.Mutex
	completedTasks atomic.Int32
	failedTasks    atomic.Int32
	inFlight       atomic.Int32
	completedBytes atomic.Int64
	startTime      time.Time
	lastUpdate     time.Time
	lastBytes      int64
	stopCh         chan struct{}
	stopped        bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime

	fmt.Fprintf(r.opts.Output, "[pagefetch] Fetching %d pages from %s | Workers: %d\n",
		r.opts.TotalTasks,
		r.opts.SourceList,
		r.opts.Workers,
	)

	go r.updateLoop()
}

// Stop stops the progress reporter.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// TaskStarted marks a task as in flight.
func (r *Reporter) TaskStarted() {
	r.inFlight.Add(1)
}

// TaskCompleted marks a task as completed with the bytes it wrote.
func (r *Reporter) TaskCompleted(size int64) {
	r.completedBytes.Add(size)
	r.completedTasks.Add(1)
	r.inFlight.Add(-1)
}

// TaskFailed marks a task as terminally failed.
func (r *Reporter) TaskFailed() {
	r.failedTasks.Add(1)
	r.inFlight.Add(-1)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	now := time.Now()
	bytes := r.completedBytes.Load()
	completed := int(r.completedTasks.Load())
	failed := int(r.failedTasks.Load())
	inFlight := int(r.inFlight.Load())

	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(bytes-r.lastBytes) / elapsed

	r.lastUpdate = now
	r.lastBytes = bytes

	var percent float64
	if r.opts.TotalTasks > 0 {
		percent = float64(completed+failed) / float64(r.opts.TotalTasks) * 100
	}

	pending := r.opts.TotalTasks - completed - failed - inFlight
	if pending < 0 {
		pending = 0
	}

	fmt.Fprintf(r.opts.Output, "\r[pagefetch] Progress: %.1f%% | %d/%d pages | %s | Speed: %s/s    ",
		percent,
		completed,
		r.opts.TotalTasks,
		formatBytes(bytes),
		formatBytes(int64(speed)),
	)
	fmt.Fprintf(r.opts.Output, "\n[pagefetch] Tasks: %d completed | %d failed | %d in-flight | %d pending    \033[A",
		completed,
		failed,
		inFlight,
		pending,
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	bytes := r.completedBytes.Load()
	completed := int(r.completedTasks.Load())
	failed := int(r.failedTasks.Load())
	duration := time.Since(r.startTime)
	avgSpeed := float64(bytes) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[pagefetch] Done: %d completed | %d failed | %s transferred    \n",
		completed,
		failed,
		formatBytes(bytes),
	)
	fmt.Fprintf(r.opts.Output, "[pagefetch] Total time: %s | Average speed: %s/s\n",
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// ParseBytes parses a human-readable byte string (e.g., "256MB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = trimSuffix(s, " ")

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func trimSuffix(s, suffix string) string {
	for hasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
