// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxNodes caps the league arena (teams plus jockeys). Zero means unbounded.
	MaxNodes int `koanf:"max_nodes"`

	// ReportQueueSize bounds the in-memory match report queue.
	ReportQueueSize int `koanf:"report_queue_size"`

	// WorkerCount sets the number of report workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeTTLSeconds is how long a report id is remembered.
	DedupeTTLSeconds int `koanf:"dedupe_ttl_seconds"`

	// StandingsLimit caps GET /standings?limit.
	StandingsLimit int `koanf:"standings_limit"`

	// Tracing settings.
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingExporter string `koanf:"tracing_exporter"`
	TracingEndpoint string `koanf:"tracing_endpoint"`

	// TracingSampleRatio is the fraction of root spans sampled.
	TracingSampleRatio float64 `koanf:"tracing_sample_ratio"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		MaxNodes:         0,
		ReportQueueSize:  10_000,
		WorkerCount:      1,
		DedupeTTLSeconds: 3600,
		StandingsLimit:   100,
		TracingEnabled:   false,
		TracingExporter:  "stdout",
		TracingEndpoint:  "localhost:4317",

		TracingSampleRatio: 1,
	}
}

// DedupeTTL returns the dedupe window as a duration.
func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StandingsLimit <= 0:
		return fmt.Errorf("%w: standings_limit must be positive, got %d", ErrInvalidConfig, c.StandingsLimit)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.MaxNodes < 0:
		return fmt.Errorf("%w: max_nodes must not be negative", ErrInvalidConfig)
	case c.TracingSampleRatio <= 0 || c.TracingSampleRatio > 1:
		return fmt.Errorf("%w: tracing_sample_ratio must be in (0, 1], got %g", ErrInvalidConfig, c.TracingSampleRatio)
	}
	return nil
}
