// Package artifact stores fetched pages as blob objects.
//
// A Store wraps a gocloud.dev bucket, so artifacts can land in a local
// directory (the default), S3, or an in-memory bucket in tests. Each fetch
// attempt opens its destination fresh: a writer created by Create starts
// from empty and replaces any previous object when closed, so a retried
// attempt never inherits bytes from an earlier one.
//
// # Usage
//
//	store, err := artifact.Open(ctx, "./pages")
//	defer store.Close()
//
//	w, err := store.Create(ctx, artifact.Name(1, url))
//	// stream the page body into w
//	err = w.Close()
//
// Artifact names follow the page<N>.<ext> convention with N the 1-based
// position of the URL in the accepted batch.
package artifact
