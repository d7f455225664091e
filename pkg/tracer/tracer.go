package tracer

import (
	"context"
	"sync"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/astro-web3/jwt-validator/pkg/otel"
)

const fallbackName = "github.com/astro-web3/jwt-validator"

var (
	mu            sync.RWMutex
	defaultTracer trace.Tracer
)

// InitTracer configures the package tracer for serviceName.
func InitTracer(ctx context.Context, serviceName string, cfg otel.Config) error {
	cfg.ServiceName = serviceName
	t, err := otel.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defaultTracer = t
	mu.Unlock()
	return nil
}

// Start opens a span on the package tracer. Before InitTracer it falls back to
// the global provider, which keeps the caller's span context.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	mu.RLock()
	t := defaultTracer
	mu.RUnlock()

	if t == nil {
		t = otelapi.Tracer(fallbackName)
	}
	return t.Start(ctx, spanName, opts...)
}
