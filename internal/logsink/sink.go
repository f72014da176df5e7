package logsink

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sink is an append-only status log with two severities.
//
// Implementations must be safe for concurrent use; a line passed to one
// call must appear contiguously in the output.
type Sink interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// multiSink writes every line to all destinations under one lock.
type multiSink struct {
	mu    sync.Mutex
	dests []io.Writer
}

// New returns a Sink that duplicates each line to every destination.
// Nil destinations are skipped.
func New(dests ...io.Writer) Sink {
	s := &multiSink{}
	for _, d := range dests {
		if d != nil {
			s.dests = append(s.dests, d)
		}
	}
	return s
}

func (s *multiSink) Infof(format string, args ...any) {
	s.emit("", format, args)
}

func (s *multiSink) Errorf(format string, args ...any) {
	s.emit("ERROR: ", format, args)
}

func (s *multiSink) emit(prefix, format string, args []any) {
	line := prefix + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dests {
		// A broken destination must not stop the others.
		io.WriteString(d, line)
	}
}

// nopSink discards everything.
type nopSink struct{}

func (nopSink) Infof(string, ...any)  {}
func (nopSink) Errorf(string, ...any) {}

// Nop returns a Sink that discards all lines.
func Nop() Sink {
	return nopSink{}
}

// Recorder is a Sink that captures lines for inspection in tests.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Infof(format string, args ...any) {
	r.record(fmt.Sprintf(format, args...))
}

func (r *Recorder) Errorf(format string, args ...any) {
	r.record("ERROR: " + fmt.Sprintf(format, args...))
}

func (r *Recorder) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// Lines returns a copy of all recorded lines in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Count returns the number of recorded lines containing substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, l := range r.Lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
