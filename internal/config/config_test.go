package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.URLFile != "urls.txt" {
		t.Errorf("URLFile = %q, want urls.txt", cfg.URLFile)
	}
	if cfg.LogFile != "errors.log" {
		t.Errorf("LogFile = %q, want errors.log", cfg.LogFile)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", cfg.Workers)
	}
	if cfg.Retry.Attempts != 3 {
		t.Errorf("Retry.Attempts = %d, want 3", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != 100*time.Millisecond {
		t.Errorf("Retry.Backoff = %v, want 100ms", cfg.Retry.Backoff)
	}
	if cfg.Transfer.Timeout != 30*time.Second {
		t.Errorf("Transfer.Timeout = %v, want 30s", cfg.Transfer.Timeout)
	}
	if cfg.Transfer.MinThroughput != 100 {
		t.Errorf("Transfer.MinThroughput = %d, want 100", cfg.Transfer.MinThroughput)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
url_file: batch.txt
output: ./pages
workers: 6
progress: true
request_rate: 2.5
retry:
  attempts: 5
  backoff: 250ms
transfer:
  timeout: 45s
  min_throughput: 1KB
  stall_window: 20s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.URLFile != "batch.txt" {
		t.Errorf("URLFile = %q", cfg.URLFile)
	}
	if cfg.Output != "./pages" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Workers != 6 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if !cfg.Progress {
		t.Error("Progress should be true")
	}
	if cfg.RequestRate != 2.5 {
		t.Errorf("RequestRate = %v", cfg.RequestRate)
	}
	if cfg.Retry.Attempts != 5 {
		t.Errorf("Retry.Attempts = %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != 250*time.Millisecond {
		t.Errorf("Retry.Backoff = %v", cfg.Retry.Backoff)
	}
	if cfg.Transfer.Timeout != 45*time.Second {
		t.Errorf("Transfer.Timeout = %v", cfg.Transfer.Timeout)
	}
	if cfg.Transfer.MinThroughput != 1024 {
		t.Errorf("Transfer.MinThroughput = %d", cfg.Transfer.MinThroughput)
	}
	if cfg.Transfer.StallWindow != 20*time.Second {
		t.Errorf("Transfer.StallWindow = %v", cfg.Transfer.StallWindow)
	}

	// Unset fields keep defaults.
	if cfg.LogFile != "errors.log" {
		t.Errorf("LogFile = %q, want default", cfg.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.Retry.Attempts != 3 {
		t.Errorf("Retry.Attempts = %d, want default 3", cfg.Retry.Attempts)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("retry:\n  backoff: nonsense\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid backoff")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGEFETCH_URL_FILE", "env.txt")
	t.Setenv("PAGEFETCH_WORKERS", "12")
	t.Setenv("PAGEFETCH_PROGRESS", "1")
	t.Setenv("PAGEFETCH_RETRY_ATTEMPTS", "4")
	t.Setenv("PAGEFETCH_RETRY_BACKOFF", "1s")
	t.Setenv("PAGEFETCH_MIN_THROUGHPUT", "2KB")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.URLFile != "env.txt" {
		t.Errorf("URLFile = %q", cfg.URLFile)
	}
	if cfg.Workers != 12 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if !cfg.Progress {
		t.Error("Progress should be true")
	}
	if cfg.Retry.Attempts != 4 {
		t.Errorf("Retry.Attempts = %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != time.Second {
		t.Errorf("Retry.Backoff = %v", cfg.Retry.Backoff)
	}
	if cfg.Transfer.MinThroughput != 2048 {
		t.Errorf("Transfer.MinThroughput = %d", cfg.Transfer.MinThroughput)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("PAGEFETCH_WORKERS", "many")
	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid PAGEFETCH_WORKERS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"no url file", func(c *Config) { c.URLFile = "" }, false},
		{"no output", func(c *Config) { c.Output = "" }, false},
		{"no log file", func(c *Config) { c.LogFile = "" }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }, false},
		{"zero timeout", func(c *Config) { c.Transfer.Timeout = 0 }, false},
		{"explicit workers", func(c *Config) { c.Workers = 8 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		URLFile: "override.txt",
		Workers: 9,
		Retry:   RetryConfig{Backoff: time.Second},
	})

	if merged.URLFile != "override.txt" {
		t.Errorf("URLFile = %q", merged.URLFile)
	}
	if merged.Workers != 9 {
		t.Errorf("Workers = %d", merged.Workers)
	}
	if merged.Retry.Backoff != time.Second {
		t.Errorf("Retry.Backoff = %v", merged.Retry.Backoff)
	}
	// Zero values in the override leave base values alone.
	if merged.LogFile != "errors.log" {
		t.Errorf("LogFile = %q, want default", merged.LogFile)
	}
	if merged.Retry.Attempts != 3 {
		t.Errorf("Retry.Attempts = %d, want default 3", merged.Retry.Attempts)
	}
}
