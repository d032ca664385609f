package server

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/userauth/internal/server/config"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceName = "userauth"

// traceOutput is where the stdout exporter writes spans.
var traceOutput io.Writer = os.Stdout

// newTracerProvider builds the SDK tracer provider for c.TraceExporter.
// With "none" spans are still created and sampled but never exported.
// Extra options are applied last.
func newTracerProvider(ctx context.Context, c *config.Config, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	base := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))),
	}

	switch c.TraceExporter {
	case config.TraceExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(traceOutput))
		if err != nil {
			return nil, fmt.Errorf("error creating stdout trace exporter: %w", err)
		}
		base = append(base, sdktrace.WithBatcher(exp))

	case config.TraceExporterOTLP:
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(c.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("error creating otlp trace exporter: %w", err)
		}
		base = append(base, sdktrace.WithBatcher(exp))

	case config.TraceExporterNone, "":
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", c.TraceExporter)
	}

	return sdktrace.NewTracerProvider(append(base, opts...)...), nil
}
