package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunFullBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>" + r.URL.Path + "</html>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	urlFile := filepath.Join(dir, "urls.txt")
	logFile := filepath.Join(dir, "errors.log")
	outDir := filepath.Join(dir, "pages")

	writeFile(t, urlFile, strings.Join([]string{
		server.URL + "/a",
		"not a url",
		server.URL + "/b",
	}, "\n"))

	code := run([]string{
		"-urls", urlFile,
		"-out", outDir,
		"-log", logFile,
		"-workers", "2",
	})
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d", code, ExitSuccess)
	}

	// Post-filter numbering: the skipped line does not consume an index.
	for _, name := range []string{"page1.html", "page2.html"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "page3.html")); err == nil {
		t.Error("page3.html should not exist")
	}

	logData, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(logData)
	if !strings.Contains(log, "Invalid URL skipped: not a url") {
		t.Errorf("log missing skip line:\n%s", log)
	}
	if !strings.Contains(log, "Download complete! 2 pages downloaded.") {
		t.Errorf("log missing summary line:\n%s", log)
	}
}

func TestRunExitsZeroDespiteTaskFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	urlFile := filepath.Join(dir, "urls.txt")
	writeFile(t, urlFile, server.URL+"/gone\n")

	code := run([]string{
		"-urls", urlFile,
		"-out", filepath.Join(dir, "pages"),
		"-log", filepath.Join(dir, "errors.log"),
		"-attempts", "2",
	})
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (task failures are not fatal)", code, ExitSuccess)
	}

	logData, _ := os.ReadFile(filepath.Join(dir, "errors.log"))
	if !strings.Contains(string(logData), "ERROR: Download failed") {
		t.Errorf("log missing failure line:\n%s", logData)
	}
}

func TestRunNoValidURLs(t *testing.T) {
	dir := t.TempDir()
	urlFile := filepath.Join(dir, "urls.txt")
	writeFile(t, urlFile, "junk\nmore junk\n")

	code := run([]string{
		"-urls", urlFile,
		"-out", filepath.Join(dir, "pages"),
		"-log", filepath.Join(dir, "errors.log"),
	})
	if code != ExitNoValidURLs {
		t.Fatalf("exit code = %d, want %d", code, ExitNoValidURLs)
	}

	logData, _ := os.ReadFile(filepath.Join(dir, "errors.log"))
	if !strings.Contains(string(logData), "No valid URLs found.") {
		t.Errorf("log missing fatal line:\n%s", logData)
	}
}

func TestRunMissingURLFile(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"-urls", filepath.Join(dir, "missing.txt"),
		"-out", filepath.Join(dir, "pages"),
		"-log", filepath.Join(dir, "errors.log"),
	})
	if code != ExitInputError {
		t.Fatalf("exit code = %d, want %d", code, ExitInputError)
	}
}

func TestRunInvalidArgs(t *testing.T) {
	if code := run([]string{"stray-positional"}); code != ExitInvalidArgs {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidArgs)
	}
	if code := run([]string{"-no-such-flag"}); code != ExitInvalidArgs {
		t.Errorf("exit code = %d, want %d", code, ExitInvalidArgs)
	}
}
