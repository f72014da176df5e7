package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/sagili-manoj/pagefetch/internal/logsink"
	"github.com/sagili-manoj/pagefetch/internal/progress"
)

// ResourceError reports a task aborted because its destination artifact
// could not be opened for writing. Not retried.
type ResourceError struct {
	Artifact string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("open artifact %s: %v", e.Artifact, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// FetchClient is the transport capability consumed by the executor.
// *httpx.Client implements it.
type FetchClient interface {
	Fetch(ctx context.Context, url string, w io.Writer) (int64, error)
}

// ArtifactStore opens destination artifacts for writing.
// *artifact.Store implements it.
type ArtifactStore interface {
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// Executor runs tasks to a terminal outcome.
type Executor struct {
	// Client performs one fetch attempt. Required.
	Client FetchClient

	// Store opens destination artifacts. Required.
	Store ArtifactStore

	// Sink receives retry, success and failure lines. Required.
	Sink logsink.Sink

	// Tracker is incremented once per successful task. Required.
	Tracker *progress.Tracker

	// Limiter, when set, paces attempts across all workers.
	Limiter *rate.Limiter

	// Reporter, when set, receives per-task display updates.
	Reporter *progress.Reporter

	// MaxAttempts is the attempt cap per task. Default: 3
	MaxAttempts int

	// BackoffBase scales the sleep between attempts: base * attempt.
	// Default: 100ms
	BackoffBase time.Duration

	written  atomic.Int64
	failures atomic.Int64
}

// Execute runs one task: up to MaxAttempts fetch attempts with linear
// backoff in between. Each attempt rewrites the artifact from empty.
func (e *Executor) Execute(ctx context.Context, t Task) Outcome {
	maxAttempts := e.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	base := e.BackoffBase
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	if e.Reporter != nil {
		e.Reporter.TaskStarted()
	}

	var lastErr error
	attempt := 0
	for attempt < maxAttempts {
		attempt++

		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				lastErr = err
				break
			}
		}

		written, err := e.attempt(ctx, t)
		if err == nil {
			done := e.Tracker.RecordSuccess()
			e.written.Add(written)
			e.Sink.Infof("Downloaded %d/%d (%.2f%%): %s",
				done, e.Tracker.Total(), e.Tracker.Percentage(), t.URL)
			if e.Reporter != nil {
				e.Reporter.TaskCompleted(written)
			}
			return Outcome{Task: t, Written: written, Attempts: attempt}
		}

		lastErr = err

		var resErr *ResourceError
		if errors.As(err, &resErr) {
			break
		}
		if attempt < maxAttempts {
			e.Sink.Infof("Retrying %s (%d/%d)", t.URL, attempt, maxAttempts)
			if !e.sleep(ctx, base*time.Duration(attempt)) {
				lastErr = ctx.Err()
				break
			}
		}
	}

	e.failures.Add(1)
	e.Sink.Errorf("Download failed for %s: %v", t.URL, lastErr)
	if e.Reporter != nil {
		e.Reporter.TaskFailed()
	}
	return Outcome{Task: t, Attempts: attempt, Err: lastErr}
}

// attempt performs one fetch into a freshly opened artifact writer.
// The writer is closed on every path.
func (e *Executor) attempt(ctx context.Context, t Task) (int64, error) {
	w, err := e.Store.Create(ctx, t.Artifact)
	if err != nil {
		return 0, &ResourceError{Artifact: t.Artifact, Err: err}
	}

	written, fetchErr := e.Client.Fetch(ctx, t.URL, w)
	closeErr := w.Close()

	if fetchErr != nil {
		return written, fmt.Errorf("fetch %s: %w", t.URL, fetchErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("commit artifact %s: %w", t.Artifact, closeErr)
	}
	return written, nil
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// BytesWritten returns the total bytes written by successful tasks.
func (e *Executor) BytesWritten() int64 {
	return e.written.Load()
}

// Failures returns the number of tasks that reached a terminal failure.
func (e *Executor) Failures() int64 {
	return e.failures.Load()
}
