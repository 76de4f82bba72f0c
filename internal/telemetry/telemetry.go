// Package telemetry configures OpenTelemetry tracing.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controls trace export
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Tracing is off when empty.
	Endpoint string `env:"ENDPOINT" yaml:"endpoint"`
	// Disabled turns tracing off even when an endpoint is set
	Disabled bool `env:"DISABLED" yaml:"disabled"`
}

// Shutdown flushes pending spans
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup initialises tracing for the given service. With no endpoint it
// returns a no-op shutdown and leaves the global provider alone, so spans
// cost nothing.
func Setup(ctx context.Context, serviceName string, cfg Config) (Shutdown, error) {
	if cfg.Disabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	return Install(ctx, serviceName, exporter)
}

// Install registers a global tracer provider that batches spans into exporter
func Install(ctx context.Context, serviceName string, exporter sdktrace.SpanExporter) (Shutdown, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
