package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "github.com/vango-dev/hydrate"

// TracingConfig configures span creation.
type TracingConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures span creation.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracer starts spans for hydration and rendering. A nil *Tracer uses the
// global tracer provider with the default name.
type Tracer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewTracer resolves a tracer from the global provider.
func NewTracer(opts ...TracingOption) *Tracer {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracer{tracer: otel.Tracer(config.TracerName), attrs: config.Attributes}
}

// Start starts a span named "hydrate.<op>".
func (t *Tracer) Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(defaultTracerName)
	if t != nil {
		tracer = t.tracer
		attrs = append(attrs, t.attrs...)
	}
	return tracer.Start(ctx, "hydrate."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on the span, sets its status and ends it.
func End(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Outcome(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SpanFromContext returns the current span, which is a no-op span when none
// is active.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
