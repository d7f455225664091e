package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	cfg := DefaultConfig("jwt-validator")

	tr, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)

	_, span := tr.Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(-1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestCreateExporter(t *testing.T) {
	for _, endpoint := range []string{"grpc://localhost:4317", "http://localhost:4318/v1/traces"} {
		t.Run(endpoint, func(t *testing.T) {
			cfg := DefaultConfig("jwt-validator")
			cfg.EndpointURL = endpoint

			exporter, err := createExporter(context.Background(), cfg)
			require.NoError(t, err)
			require.NotNil(t, exporter)
			assert.NoError(t, exporter.Shutdown(context.Background()))
		})
	}
}

func TestResourceAttributes(t *testing.T) {
	cfg := DefaultConfig("jwt-validator")
	cfg.ServiceVersion = "1.0.0"
	cfg.ResourceAttributes["deployment.environment"] = "test"

	attrs := cfg.resourceAttributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "service.name", string(attrs[0].Key))
	assert.Equal(t, "jwt-validator", attrs[0].Value.AsString())
}
