// Package pool runs fetch tasks on a fixed set of workers.
//
// A Pool holds an unbounded FIFO queue guarded by a mutex and a wait
// condition. Workers dequeue in submission order; completion order across
// workers is unordered. Shutdown drains: no new submissions are accepted,
// queued and in-flight tasks still run, and the call blocks until every
// worker has exited.
//
// Lifecycle: Created -> Running -> Draining -> Stopped. Transitions are
// one-directional; a Stopped pool cannot be reused.
package pool
