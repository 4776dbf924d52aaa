package service

import (
	"time"

	"github.com/okian/plains/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxNodes caps the league arena. Zero means unbounded.
func WithMaxNodes(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxNodes = n
		}
	}
}

// WithQueueSize sets the capacity of the match-report queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeTTL sets how long a report id is remembered.
func WithDedupeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.dedupeTTL = ttl
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetricsInterval sets how often system and queue gauges are refreshed.
func WithMetricsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.metricsInterval = d
		}
	}
}
