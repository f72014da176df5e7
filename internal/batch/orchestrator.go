package batch

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sagili-manoj/pagefetch/internal/artifact"
	"github.com/sagili-manoj/pagefetch/internal/fetcher"
	"github.com/sagili-manoj/pagefetch/internal/logsink"
	"github.com/sagili-manoj/pagefetch/internal/pool"
	"github.com/sagili-manoj/pagefetch/internal/progress"
)

// ErrEmptyBatch is returned when Run is called with no URLs.
var ErrEmptyBatch = errors.New("batch: no tasks to dispatch")

// Orchestrator runs one batch of URL fetches to completion.
type Orchestrator struct {
	// Client performs fetch attempts. Required.
	Client fetcher.FetchClient

	// Store receives the page artifacts. Required.
	Store *artifact.Store

	// Sink receives all status lines. Required.
	Sink logsink.Sink

	// Workers overrides the computed pool size when positive.
	Workers int

	// Parallelism caps the pool at 2x this value; 0 means runtime.NumCPU.
	Parallelism int

	// MaxAttempts and BackoffBase configure per-task retry.
	MaxAttempts int
	BackoffBase time.Duration

	// RequestRate paces fetch attempts across all workers, in requests
	// per second. 0 disables pacing.
	RequestRate float64

	// Reporter, when set, shows live progress during the run.
	Reporter *progress.Reporter
}

// Summary is the final accounting for one batch run.
type Summary struct {
	RunID      string
	PoolSize   int
	Dispatched int
	Dropped    int
	Completed  int
	Failed     int
	Bytes      int64
	Duration   time.Duration
}

// PoolSize computes the worker count for a batch: max(4, batch/5), clamped
// to [1, 2*parallelism].
func PoolSize(batch, parallelism int) int {
	n := batch / 5
	if n < 4 {
		n = 4
	}
	if ceiling := 2 * parallelism; n > ceiling {
		n = ceiling
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run dispatches one task per URL and blocks until the pool has fully
// drained. Individual task failures never abort the batch.
func (o *Orchestrator) Run(ctx context.Context, urls []string) (Summary, error) {
	if len(urls) == 0 {
		return Summary{}, ErrEmptyBatch
	}

	start := time.Now()
	runID := uuid.NewString()

	parallelism := o.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	workers := o.Workers
	if workers <= 0 {
		workers = PoolSize(len(urls), parallelism)
	}

	tracker := progress.NewTracker(len(urls))

	var limiter *rate.Limiter
	if o.RequestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.RequestRate), workers)
	}

	exec := &fetcher.Executor{
		Client:      o.Client,
		Store:       o.Store,
		Sink:        o.Sink,
		Tracker:     tracker,
		Limiter:     limiter,
		Reporter:    o.Reporter,
		MaxAttempts: o.MaxAttempts,
		BackoffBase: o.BackoffBase,
	}

	p := pool.New(workers, exec, o.Sink)
	o.Sink.Infof("run %s: dispatching %d tasks across %d workers", runID, len(urls), p.Workers())
	p.Start(ctx)

	dispatched := 0
	dropped := 0
	for i, u := range urls {
		t := fetcher.Task{
			URL:      u,
			Artifact: artifact.Name(i+1, u),
			Index:    i + 1,
		}
		if err := p.Submit(t); err != nil {
			// Task dropped, batch continues.
			o.Sink.Errorf("task dropped for %s: %v", u, err)
			dropped++
			continue
		}
		dispatched++
	}

	p.Shutdown()

	return Summary{
		RunID:      runID,
		PoolSize:   p.Workers(),
		Dispatched: dispatched,
		Dropped:    dropped,
		Completed:  tracker.Completed(),
		Failed:     int(exec.Failures()),
		Bytes:      exec.BytesWritten(),
		Duration:   time.Since(start),
	}, nil
}
