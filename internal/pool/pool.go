package pool

import (
	"context"
	"errors"
	"sync"

	"github.com/sagili-manoj/pagefetch/internal/fetcher"
	"github.com/sagili-manoj/pagefetch/internal/logsink"
)

// ErrPoolClosed is returned by Submit once shutdown has begun. The task is
// dropped; callers log it and move on.
var ErrPoolClosed = errors.New("pool: closed to new tasks")

// State is the pool lifecycle state.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Executor runs one task to its terminal outcome.
type Executor interface {
	Execute(ctx context.Context, t fetcher.Task) fetcher.Outcome
}

// Pool is a fixed-size worker pool over a FIFO task queue.
type Pool struct {
	exec    Executor
	sink    logsink.Sink
	workers int

	mu           sync.Mutex
	cond         *sync.Cond
	queue        []fetcher.Task
	shuttingDown bool
	state        State

	wg sync.WaitGroup
}

// New creates a pool with the given worker count, clamped to at least 1.
func New(workers int, exec Executor, sink logsink.Sink) *Pool {
	if workers < 1 {
		workers = 1
	}
	if sink == nil {
		sink = logsink.Nop()
	}
	p := &Pool{
		exec:    exec,
		sink:    sink,
		workers: workers,
		state:   StateCreated,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. Calling Start more than once, or after
// shutdown, has no effect.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCreated {
		return
	}
	p.state = StateRunning

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i+1)
	}
}

// Submit enqueues a task. Tasks are dequeued in submission order.
// Returns ErrPoolClosed once shutdown has begun.
func (p *Pool) Submit(t fetcher.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shuttingDown {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, t)
	p.cond.Signal()
	return nil
}

// Shutdown stops accepting tasks, wakes all idle workers, and blocks until
// the queue is drained and every worker has exited. Safe to call more than
// once; every caller blocks until the drain completes.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.shuttingDown {
		p.shuttingDown = true
		if p.state == StateRunning {
			p.state = StateDraining
		}
		p.cond.Broadcast()
	}
	started := p.state != StateCreated
	p.mu.Unlock()

	if started {
		p.wg.Wait()
	}

	p.mu.Lock()
	p.state = StateStopped
	p.mu.Unlock()
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// QueueLen returns the number of tasks waiting to be dequeued.
func (p *Pool) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.shuttingDown {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Shutdown signalled and nothing left to do.
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(ctx, id, t)
	}
}

// run executes one task, keeping a panicking executor from taking the
// whole pool down.
func (p *Pool) run(ctx context.Context, id int, t fetcher.Task) {
	defer func() {
		if r := recover(); r != nil {
			p.sink.Errorf("worker %d: panic executing task for %s: %v", id, t.URL, r)
		}
	}()
	p.exec.Execute(ctx, t)
}
