package tracing

import (
	"context"
	"course_seeder/internal/util"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

var Tracer = otel.Tracer("course-seeder")

func newExporter(exporter, collectorEndpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case "", "jaeger":
		return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrUnsupportedExporter, exporter)
	}
}

func InitTracer(serviceName, exporter, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exp, err := newExporter(exporter, collectorEndpoint)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)

	otel.SetTracerProvider(tp)
	return tp, nil
}

// StartPhase opens a span for one seeding phase.
func StartPhase(ctx context.Context, phase string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, "seed."+phase)
}
