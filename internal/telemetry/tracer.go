// Package telemetry sets up OpenTelemetry tracing for the interviewer.
package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
)

// ServiceName identifies spans emitted by this module.
const ServiceName = "interviewer"

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

// Noop is returned when tracing is disabled.
func Noop(context.Context) error { return nil }

// InitTracer installs a global tracer provider exporting spans as JSON to w
// (stderr when nil). When enabled is false the global no-op provider is left
// in place and Noop is returned.
func InitTracer(enabled bool, w io.Writer) (Shutdown, error) {
	if !enabled {
		return Noop, nil
	}
	if w == nil {
		w = os.Stderr
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", attribute.String("service.name", ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logging.Debug("OpenTelemetry tracing enabled")
	return tp.Shutdown, nil
}
