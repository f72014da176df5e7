// Package logsink provides the status log shared by the batch components.
//
// A Sink receives one status line per call and serializes writes so lines
// from concurrent workers never interleave. Error lines carry a static
// "ERROR: " prefix. The default sink duplicates every line to a console
// stream and a persistent log destination.
//
// # Usage
//
//	logFile, _ := os.Create("errors.log")
//	sink := logsink.New(os.Stdout, logFile)
//
//	sink.Infof("Downloaded %d/%d (%.2f%%): %s", done, total, pct, url)
//	sink.Errorf("Download failed for %s: %v", url, err)
//
// Sinks are injected at construction; no package holds a global logger.
package logsink
