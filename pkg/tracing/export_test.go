package tracing

import sdktrace "go.opentelemetry.io/otel/sdk/trace"

// WithExporter returns cfg using exp in place of the configured exporter.
func WithExporter(cfg Config, exp sdktrace.SpanExporter) Config {
	cfg.exporter = exp
	return cfg
}
