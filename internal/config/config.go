package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	slurphttp "github.com/ligustah/urlcat/internal/http"
	"github.com/ligustah/urlcat/internal/progress"
	"github.com/ligustah/urlcat/internal/sink"
	"github.com/ligustah/urlcat/pkg/urlcat"
)

// Config defines configuration for the urlcat CLI.
type Config struct {
	URLs         []string          `yaml:"urls"`
	Range        *RangeConfig      `yaml:"range"`
	LogError     bool              `yaml:"log_error"`
	Output       string            `yaml:"output"`
	Bucket       string            `yaml:"bucket"`
	Object       string            `yaml:"object"`
	SourceBucket string            `yaml:"source_bucket"`
	Progress     bool              `yaml:"progress"`
	Timeout      time.Duration     `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers"`
	Retry        RetryConfig       `yaml:"retry"`
}

// RangeConfig is the global byte range, in bytes.
type RangeConfig struct {
	Start int64 `yaml:"start"`
	End   int64 `yaml:"end"`
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Retry: RetryConfig{
			Attempts:   3,
			Backoff:    500 * time.Millisecond,
			MaxBackoff: 10 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes and durations.
type yamlConfig struct {
	URLs         []string          `yaml:"urls"`
	Range        *yamlRangeConfig  `yaml:"range"`
	LogError     bool              `yaml:"log_error"`
	Output       string            `yaml:"output"`
	Bucket       string            `yaml:"bucket"`
	Object       string            `yaml:"object"`
	SourceBucket string            `yaml:"source_bucket"`
	Progress     bool              `yaml:"progress"`
	Timeout      string            `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers"`
	Retry        yamlRetryConfig   `yaml:"retry"`
}

type yamlRangeConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
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
	cfg.URLs = yc.URLs
	cfg.LogError = yc.LogError
	cfg.Output = yc.Output
	cfg.Bucket = yc.Bucket
	cfg.Object = yc.Object
	cfg.SourceBucket = yc.SourceBucket
	cfg.Progress = yc.Progress
	cfg.Headers = yc.Headers

	if yc.Range != nil {
		rng, err := parseRange(yc.Range.Start, yc.Range.End)
		if err != nil {
			return Config{}, err
		}
		cfg.Range = rng
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
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
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

func parseRange(start, end string) (*RangeConfig, error) {
	var rng RangeConfig
	if start != "" {
		n, err := progress.ParseBytes(start)
		if err != nil {
			return nil, fmt.Errorf("parse range.start: %w", err)
		}
		rng.Start = n
	}
	if end != "" {
		n, err := progress.ParseBytes(end)
		if err != nil {
			return nil, fmt.Errorf("parse range.end: %w", err)
		}
		rng.End = n
	}
	return &rng, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the URLCAT_ prefix. URLCAT_URLS is
// comma-separated.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("URLCAT_URLS"); v != "" {
		c.URLs = splitList(v)
	}
	start, end := os.Getenv("URLCAT_RANGE_START"), os.Getenv("URLCAT_RANGE_END")
	if start != "" || end != "" {
		rng, err := parseRange(start, end)
		if err != nil {
			return fmt.Errorf("parse URLCAT_RANGE: %w", err)
		}
		c.Range = rng
	}
	if v := os.Getenv("URLCAT_LOG_ERROR"); v != "" {
		c.LogError = v == "true" || v == "1"
	}
	if v := os.Getenv("URLCAT_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("URLCAT_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("URLCAT_OBJECT"); v != "" {
		c.Object = v
	}
	if v := os.Getenv("URLCAT_SOURCE_BUCKET"); v != "" {
		c.SourceBucket = v
	}
	if v := os.Getenv("URLCAT_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("URLCAT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse URLCAT_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("URLCAT_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse URLCAT_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("URLCAT_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse URLCAT_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("URLCAT_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse URLCAT_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return errors.New("config: at least one URL is required")
	}
	if c.Range != nil && (c.Range.Start < 0 || c.Range.End < 0) {
		return errors.New("config: range must not be negative")
	}
	if c.Bucket != "" && c.Object == "" {
		return errors.New("config: object is required with bucket")
	}
	if c.Bucket != "" && c.Output != "" {
		return errors.New("config: output and bucket are mutually exclusive")
	}
	if c.Retry.Attempts < 0 {
		return errors.New("config: retry attempts must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if len(override.URLs) > 0 {
		c.URLs = override.URLs
	}
	if override.Range != nil {
		c.Range = override.Range
	}
	if override.LogError {
		c.LogError = override.LogError
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Object != "" {
		c.Object = override.Object
	}
	if override.SourceBucket != "" {
		c.SourceBucket = override.SourceBucket
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if len(override.Headers) > 0 {
		c.Headers = override.Headers
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	return c
}

// HTTPOptions returns the transport options described by c.
func (c Config) HTTPOptions() slurphttp.Options {
	opts := slurphttp.DefaultOptions()
	opts.Timeout = c.Timeout
	opts.RetryAttempts = c.Retry.Attempts
	opts.RetryBackoff = c.Retry.Backoff
	opts.RetryMaxBackoff = c.Retry.MaxBackoff
	return opts
}

// Header returns the configured request headers.
func (c Config) Header() http.Header {
	if len(c.Headers) == 0 {
		return nil
	}
	h := make(http.Header, len(c.Headers))
	for k, v := range c.Headers {
		h.Set(k, v)
	}
	return h
}

// URLRange returns the configured range, or nil if none was set.
func (c Config) URLRange() *urlcat.Range {
	if c.Range == nil {
		return nil
	}
	return &urlcat.Range{Start: c.Range.Start, End: c.Range.End}
}

// Destination returns where output should be written.
func (c Config) Destination() sink.Destination {
	return sink.Destination{
		Path:      c.Output,
		BucketURL: c.Bucket,
		Object:    c.Object,
	}
}
