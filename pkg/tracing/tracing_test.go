package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/plains/pkg/tracing"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := tracing.NewProvider(context.Background(), tracing.Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid(), "disabled tracer must not produce real spans")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_RecordsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	cfg := tracing.WithExporter(tracing.Config{Enabled: true, ServiceName: "league-test"}, exp)

	p, err := tracing.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "league.add_team")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, p.ForceFlush(context.Background()))
	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "league.add_team", spans[0].Name)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	_, err := tracing.NewProvider(context.Background(), tracing.Config{Enabled: true, Exporter: "zipkin"})
	require.True(t, errors.Is(err, tracing.ErrExporter))
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := tracing.NewProvider(context.Background(), tracing.Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	require.True(t, p.Enabled())
	require.NoError(t, p.Shutdown(context.Background()))
}
