// Package httpx provides the HTTP fetch capability for page downloads.
//
// This package handles:
//   - Connection pooling across parallel workers
//   - Redirect following
//   - Non-2xx responses reported as failures
//   - Minimum-throughput stall detection during body transfer
//
// Retry policy deliberately lives with the caller: a Client performs a
// single attempt per Fetch call.
//
// # Usage
//
//	client := httpx.NewClient(httpx.Options{
//	    Timeout:       30 * time.Second,
//	    MinThroughput: 100,
//	    StallWindow:   10 * time.Second,
//	})
//
//	written, err := client.Fetch(ctx, url, artifactWriter)
package httpx
