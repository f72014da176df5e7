package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sagili-manoj/pagefetch/internal/progress"
)

// Config defines configuration for the pagefetch CLI.
type Config struct {
	URLFile     string         `yaml:"url_file"`
	Output      string         `yaml:"output"`
	LogFile     string         `yaml:"log_file"`
	Workers     int            `yaml:"workers"`
	Progress    bool           `yaml:"progress"`
	UserAgent   string         `yaml:"user_agent"`
	RequestRate float64        `yaml:"request_rate"`
	Retry       RetryConfig    `yaml:"retry"`
	Transfer    TransferConfig `yaml:"transfer"`
}

// RetryConfig defines per-task retry behavior.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

// TransferConfig defines per-attempt transfer limits.
type TransferConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MinThroughput int64         `yaml:"min_throughput"`
	StallWindow   time.Duration `yaml:"stall_window"`
}

// Default returns a Config with sensible defaults. Workers is 0, meaning
// the pool size is computed from the batch size at run time.
func Default() Config {
	return Config{
		URLFile:     "urls.txt",
		Output:      ".",
		LogFile:     "errors.log",
		UserAgent:   "pagefetch/1.0",
		RequestRate: 10,
		Retry: RetryConfig{
			Attempts: 3,
			Backoff:  100 * time.Millisecond,
		},
		Transfer: TransferConfig{
			Timeout:       30 * time.Second,
			MinThroughput: 100,
			StallWindow:   10 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations and sizes.
type yamlConfig struct {
	URLFile     string             `yaml:"url_file"`
	Output      string             `yaml:"output"`
	LogFile     string             `yaml:"log_file"`
	Workers     int                `yaml:"workers"`
	Progress    bool               `yaml:"progress"`
	UserAgent   string             `yaml:"user_agent"`
	RequestRate float64            `yaml:"request_rate"`
	Retry       yamlRetryConfig    `yaml:"retry"`
	Transfer    yamlTransferConfig `yaml:"transfer"`
}

type yamlRetryConfig struct {
	Attempts int    `yaml:"attempts"`
	Backoff  string `yaml:"backoff"`
}

type yamlTransferConfig struct {
	Timeout       string `yaml:"timeout"`
	MinThroughput string `yaml:"min_throughput"`
	StallWindow   string `yaml:"stall_window"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URLFile != "" {
		cfg.URLFile = yc.URLFile
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.LogFile != "" {
		cfg.LogFile = yc.LogFile
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.Progress = yc.Progress
	if yc.UserAgent != "" {
		cfg.UserAgent = yc.UserAgent
	}
	if yc.RequestRate != 0 {
		cfg.RequestRate = yc.RequestRate
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Transfer.Timeout != "" {
		d, err := time.ParseDuration(yc.Transfer.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse transfer.timeout: %w", err)
		}
		cfg.Transfer.Timeout = d
	}
	if yc.Transfer.MinThroughput != "" {
		size, err := progress.ParseBytes(yc.Transfer.MinThroughput)
		if err != nil {
			return Config{}, fmt.Errorf("parse transfer.min_throughput: %w", err)
		}
		cfg.Transfer.MinThroughput = size
	}
	if yc.Transfer.StallWindow != "" {
		d, err := time.ParseDuration(yc.Transfer.StallWindow)
		if err != nil {
			return Config{}, fmt.Errorf("parse transfer.stall_window: %w", err)
		}
		cfg.Transfer.StallWindow = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the PAGEFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("PAGEFETCH_URL_FILE"); v != "" {
		c.URLFile = v
	}
	if v := os.Getenv("PAGEFETCH_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("PAGEFETCH_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("PAGEFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("PAGEFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("PAGEFETCH_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("PAGEFETCH_REQUEST_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_REQUEST_RATE: %w", err)
		}
		c.RequestRate = f
	}
	if v := os.Getenv("PAGEFETCH_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("PAGEFETCH_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("PAGEFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_TIMEOUT: %w", err)
		}
		c.Transfer.Timeout = d
	}
	if v := os.Getenv("PAGEFETCH_MIN_THROUGHPUT"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_MIN_THROUGHPUT: %w", err)
		}
		c.Transfer.MinThroughput = size
	}
	if v := os.Getenv("PAGEFETCH_STALL_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse PAGEFETCH_STALL_WINDOW: %w", err)
		}
		c.Transfer.StallWindow = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URLFile == "" {
		return errors.New("config: url_file is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.LogFile == "" {
		return errors.New("config: log_file is required")
	}
	if c.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	if c.Retry.Attempts < 1 {
		return errors.New("config: retry.attempts must be at least 1")
	}
	if c.Transfer.Timeout <= 0 {
		return errors.New("config: transfer.timeout must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URLFile != "" {
		c.URLFile = override.URLFile
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.LogFile != "" {
		c.LogFile = override.LogFile
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	if override.RequestRate != 0 {
		c.RequestRate = override.RequestRate
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Transfer.Timeout != 0 {
		c.Transfer.Timeout = override.Transfer.Timeout
	}
	if override.Transfer.MinThroughput != 0 {
		c.Transfer.MinThroughput = override.Transfer.MinThroughput
	}
	if override.Transfer.StallWindow != 0 {
		c.Transfer.StallWindow = override.Transfer.StallWindow
	}
	return c
}
