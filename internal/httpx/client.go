package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStalled is returned when the transfer rate stays below the configured
// floor for a full stall window.
var ErrStalled = errors.New("httpx: transfer stalled below throughput floor")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpx: unexpected status: %s", e.Status)
}

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds one whole fetch, connect included.
	// Default: 30s
	Timeout time.Duration

	// MinThroughput is the transfer-rate floor in bytes per second.
	// A transfer below this rate for a full StallWindow is aborted.
	// Set to 0 to disable stall detection.
	// Default: 100
	MinThroughput int64

	// StallWindow is how long the rate may stay below MinThroughput
	// before the transfer is treated as stalled.
	// Default: 10s
	StallWindow time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 16
	MaxIdleConnsPerHost int

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:             30 * time.Second,
		MinThroughput:       100,
		StallWindow:         10 * time.Second,
		MaxIdleConnsPerHost: 16,
		UserAgent:           "pagefetch/1.0",
	}
}

// Client performs single-attempt page fetches.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 16
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Fetch performs one GET attempt and streams the body into w.
// Redirects are followed; any non-2xx status is a failure. Returns the
// number of bytes written to w, which may be non-zero on error.
func (c *Client) Fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return c.copyBody(w, resp.Body)
}

// copyBody copies src to dst while enforcing the throughput floor.
// A read that blocks outright is bounded by the client timeout; the window
// check catches transfers that trickle without ever blocking for good.
func (c *Client) copyBody(dst io.Writer, src io.Reader) (int64, error) {
	check := c.opts.MinThroughput > 0 && c.opts.StallWindow > 0

	buf := make([]byte, 32*1024)
	var written int64
	windowStart := time.Now()
	var windowBytes int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			nw, writeErr := dst.Write(buf[:n])
			written += int64(nw)
			if writeErr != nil {
				return written, fmt.Errorf("write body: %w", writeErr)
			}
			windowBytes += int64(nw)
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("read body: %w", readErr)
		}

		if check {
			if elapsed := time.Since(windowStart); elapsed >= c.opts.StallWindow {
				rate := float64(windowBytes) / elapsed.Seconds()
				if rate < float64(c.opts.MinThroughput) {
					return written, ErrStalled
				}
				windowStart = time.Now()
				windowBytes = 0
			}
		}
	}
}
