// Package tracing wires OpenTelemetry tracing for the league service.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "plains"

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active. When false a no-op tracer is used.
	Enabled bool

	// Exporter is one of "stdout", "otlp" or "none".
	Exporter string

	// Endpoint is the OTLP collector address for the "otlp" exporter.
	Endpoint string

	// ServiceName identifies this process in traces.
	ServiceName string

	// SampleRatio is the fraction of root spans sampled, in (0, 1].
	// Zero means sample everything.
	SampleRatio float64

	// exporter overrides Exporter; used by tests.
	exporter sdktrace.SpanExporter
}

// Provider owns the tracer provider and its tracer.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewProvider creates the trace provider described by cfg.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	exporter := cfg.exporter
	if exporter == nil {
		var err error
		switch cfg.Exporter {
		case "stdout", "":
			exporter, err = stdouttrace.New()
			if err != nil {
				return nil, fmt.Errorf("%w: stdout: %w", ErrExporter, err)
			}
		case "otlp":
			endpoint := cfg.Endpoint
			if endpoint == "" {
				endpoint = "localhost:4317"
			}
			exporter, err = otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(endpoint),
				otlptracegrpc.WithInsecure(),
			)
			if err != nil {
				return nil, fmt.Errorf("%w: otlp: %w", ErrExporter, err)
			}
		case "none":
			// Spans are recorded for correlation but not exported.
		default:
			return nil, fmt.Errorf("%w: unsupported exporter %q", ErrExporter, cfg.Exporter)
		}
	}

	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", name))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return &Provider{provider: tp, tracer: tp.Tracer(name)}, nil
}

// Tracer returns the tracer; it is never nil.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// Enabled reports whether spans are being recorded.
func (p *Provider) Enabled() bool { return p.provider != nil }

// ForceFlush exports any spans still buffered.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// Noop returns a tracer that records nothing.
func Noop() trace.Tracer { return noop.NewTracerProvider().Tracer("noop") }
