package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sagili-manoj/pagefetch/internal/logsink"
)

// urlPattern accepts http(s) URLs with a dotted host and an optional path.
var urlPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9\-\.]+\.[a-zA-Z]{2,}(/[^\s]*)?$`)

// LoadURLs reads a line-oriented URL list. Lines are trimmed; blank lines
// are ignored; lines that fail the URL pattern are logged and excluded.
func LoadURLs(r io.Reader, sink logsink.Sink) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if urlPattern.MatchString(line) {
			urls = append(urls, line)
		} else {
			sink.Infof("Invalid URL skipped: %s", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// LoadURLFile loads a URL list from disk.
func LoadURLFile(path string, sink logsink.Sink) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()
	return LoadURLs(f, sink)
}
