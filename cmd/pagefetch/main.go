package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sagili-manoj/pagefetch/internal/artifact"
	"github.com/sagili-manoj/pagefetch/internal/batch"
	"github.com/sagili-manoj/pagefetch/internal/config"
	"github.com/sagili-manoj/pagefetch/internal/httpx"
	"github.com/sagili-manoj/pagefetch/internal/logsink"
	"github.com/sagili-manoj/pagefetch/internal/progress"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitInputError   = 3
	ExitNoValidURLs  = 4
	ExitStorageError = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pagefetch", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	urlFile := fs.String("urls", "", "Path to the URL list, one URL per line")
	output := fs.String("out", "", "Output directory or bucket URL for page artifacts")
	logFile := fs.String("log", "", "Persistent log destination")
	workers := fs.Int("workers", 0, "Worker count (0 = sized from the batch)")
	attempts := fs.Int("attempts", 0, "Fetch attempts per page")
	rateLimit := fs.Float64("rate", 0, "Request rate across all workers, requests/sec (0 = unlimited)")
	showProgress := fs.Bool("progress", false, "Show live progress")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: pagefetch [options]

Fetch every URL in a list concurrently and store each page as page<N>.<ext>
in the output location. Failed pages are retried with backoff; the batch
always runs to completion.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		fileCfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	cfg = cfg.Merge(config.Config{
		URLFile:  *urlFile,
		Output:   *output,
		LogFile:  *logFile,
		Workers:  *workers,
		Progress: *showProgress,
		Retry:    config.RetryConfig{Attempts: *attempts},
	})
	if *rateLimit > 0 {
		cfg.RequestRate = *rateLimit
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fetchBatch(ctx, cfg)
}

func fetchBatch(ctx context.Context, cfg config.Config) int {
	logDest, err := os.Create(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return ExitGeneralError
	}
	defer logDest.Close()

	sink := logsink.New(os.Stdout, logDest)

	urls, err := batch.LoadURLFile(cfg.URLFile, sink)
	if err != nil {
		sink.Errorf("Error opening file: %s", cfg.URLFile)
		return ExitInputError
	}
	if len(urls) == 0 {
		sink.Errorf("No valid URLs found.")
		return ExitNoValidURLs
	}

	store, err := artifact.Open(ctx, cfg.Output)
	if err != nil {
		sink.Errorf("Error opening output: %v", err)
		return ExitStorageError
	}
	defer store.Close()

	client := httpx.NewClient(httpx.Options{
		Timeout:       cfg.Transfer.Timeout,
		MinThroughput: cfg.Transfer.MinThroughput,
		StallWindow:   cfg.Transfer.StallWindow,
		UserAgent:     cfg.UserAgent,
	})

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalTasks: len(urls),
			Workers:    cfg.Workers,
			Output:     os.Stderr,
			SourceList: cfg.URLFile,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	orch := &batch.Orchestrator{
		Client:      client,
		Store:       store,
		Sink:        sink,
		Workers:     cfg.Workers,
		MaxAttempts: cfg.Retry.Attempts,
		BackoffBase: cfg.Retry.Backoff,
		RequestRate: cfg.RequestRate,
		Reporter:    reporter,
	}

	summary, err := orch.Run(ctx, urls)
	if err != nil {
		sink.Errorf("Batch failed: %v", err)
		return ExitGeneralError
	}

	sink.Infof("Download complete! %d pages downloaded.", summary.Completed)
	sink.Infof("run %s: %d dispatched, %d failed, %s in %s",
		summary.RunID,
		summary.Dispatched,
		summary.Failed,
		progress.FormatBytes(summary.Bytes),
		summary.Duration.Round(time.Millisecond),
	)

	// Per-page failures do not fail the run; only an empty batch does.
	return ExitSuccess
}
