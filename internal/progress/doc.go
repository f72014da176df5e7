// Package progress tracks and reports batch completion.
//
// Tracker is the authoritative completion counter: one atomic increment per
// successfully fetched page, with a derived percentage. Reporter is an
// optional periodic display layered on top, printing percentage, task
// counts, transferred bytes and speed.
//
// # Usage
//
//	tracker := progress.NewTracker(len(urls))
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalTasks: len(urls),
//	    Workers:    workers,
//	})
//	reporter.Start()
//	defer reporter.Stop()
//
//	// On each success:
//	done := tracker.RecordSuccess()
//	reporter.TaskCompleted(bytesWritten)
//
// # Output Format
//
//	[pagefetch] Fetching 120 pages | Workers: 8
//	[pagefetch] Progress: 45.8% | 55/120 pages | 12.40 MB | Speed: 1.20 MB/s
package progress
