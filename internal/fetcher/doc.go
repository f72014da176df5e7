// Package fetcher executes single page-fetch tasks with retry and backoff.
//
// A Task pairs one URL with its destination artifact name. The Executor
// runs a task to a terminal Outcome: up to MaxAttempts fetch attempts, each
// writing the artifact from empty, with a linearly growing backoff between
// attempts. A success updates the progress tracker and logs one success
// line; exhausting all attempts logs one failure line and leaves the
// tracker untouched.
package fetcher
