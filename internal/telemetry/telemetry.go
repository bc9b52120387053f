package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies wguard spans and resources.
const ServiceName = "wguard"

// InitTracer initializes the OpenTelemetry tracer provider writing spans to w.
// It returns a shutdown function that should be called on app exit.
func InitTracer(w io.Writer, version string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	// Create a resource describing this service
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	// Create and register the TracerProvider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	// Set global propagator to tracecontext (standard W3C)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Return global shutdown function
	return tp.Shutdown, nil
}

// Tracer returns the wguard tracer from the global provider.
// Before InitTracer runs it is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}
