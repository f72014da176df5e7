// Package batch turns a URL list into a drained pool run.
//
// LoadURLs filters a line-oriented list against a URL syntax pattern,
// logging and excluding anything malformed. The Orchestrator sizes the
// worker pool relative to the batch and the machine, submits one task per
// accepted URL, and blocks until the pool reports full drain. Its Run call
// is the single synchronization point a caller needs: when it returns, the
// summary is final.
package batch
