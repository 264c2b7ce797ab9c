package brief

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/brajen/contentbrief/pkg/brief"

var tracer = otel.Tracer(tracerName)

// InitTracing installs a stdout span exporter as the global tracer
// provider. w is typically os.Stdout in development or io.Discard when
// tracing is disabled; callers close the returned provider on shutdown.
func InitTracing(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(tracerName)
	return tp, nil
}

// StartSpan starts a span under the package tracer. Callers must defer
// span.End().
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, opts...)
}
