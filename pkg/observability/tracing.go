// Package observability provides OpenTelemetry tracing for Prism. The
// dispatcher opens a span per summarize call; until Init installs a real
// provider those spans are no-ops, so library users pay nothing unless the
// embedding application opts in.
package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/prism-stats/prism"

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
)

// Config contains tracing configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	PrettyPrint    bool
}

// Init installs a tracer provider exporting to stdout. Calling Init twice
// shuts the previous provider down first.
func Init(cfg Config) error {
	opts := []stdouttrace.Option{}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return err
	}

	name := cfg.ServiceName
	if name == "" {
		name = "prism"
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(name),
			semconv.ServiceVersion(cfg.ServiceVersion),
		)),
	)

	mu.Lock()
	old := provider
	provider = tp
	mu.Unlock()

	if old != nil {
		_ = old.Shutdown(context.Background())
	}

	otel.SetTracerProvider(tp)
	return nil
}

// Shutdown flushes and stops the tracer provider installed by Init
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

// Tracer returns the tracer used for summarize spans. Without Init this is
// the global no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a summarize span with the given attributes
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records the outcome on the span and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
