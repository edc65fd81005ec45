package jwtscreen

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer is the optional tracing interface for the middleware.
type Tracer interface {
	StartSpan(ctx context.Context, operationName string) (context.Context, Span)
}

// Span is a single traced operation.
type Span interface {
	SetTag(key, value string)
	Finish()
}

// NoopTracer is the default Tracer and does nothing.
type NoopTracer struct{}

func (NoopTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	return ctx, NoopSpan{}
}

type NoopSpan struct{}

func (NoopSpan) SetTag(key, value string) {}
func (NoopSpan) Finish()                  {}

// OpenTelemetryTracer implements Tracer on top of an OpenTelemetry tracer.
type OpenTelemetryTracer struct {
	tracer oteltrace.Tracer
}

func NewOpenTelemetryTracer(tracer oteltrace.Tracer) *OpenTelemetryTracer {
	return &OpenTelemetryTracer{tracer: tracer}
}

func (t *OpenTelemetryTracer) StartSpan(ctx context.Context, operationName string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, operationName)
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span oteltrace.Span
}

func (s *otelSpan) SetTag(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *otelSpan) Finish() {
	s.span.End()
}
