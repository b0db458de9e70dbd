package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OperationMeta describes one authentication operation for telemetry.
type OperationMeta struct {
	Component string // authenticator or subsystem, e.g. "x509", "cache"
	Name      string // operation, e.g. "authenticate"
	Method    string // authentication method reported by the result (optional)
}

// SpanName returns the deterministic span name for the operation.
// Format: auth.<component>.<name> or auth.<name>
func (m OperationMeta) SpanName() string {
	if m.Component != "" {
		return "auth." + m.Component + "." + m.Name
	}
	return "auth." + m.Name
}

// ID returns the operation identifier: component.name or just name.
func (m OperationMeta) ID() string {
	if m.Component != "" {
		return m.Component + "." + m.Name
	}
	return m.Name
}

func (m OperationMeta) fields() []Field {
	fields := []Field{
		{Key: "auth.operation", Value: m.ID()},
		{Key: "auth.name", Value: m.Name},
	}
	if m.Component != "" {
		fields = append(fields, Field{Key: "auth.component", Value: m.Component})
	}
	if m.Method != "" {
		fields = append(fields, Field{Key: "auth.method", Value: m.Method})
	}
	return fields
}

// Tracer wraps OpenTelemetry tracing with authentication span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an authentication operation.
	StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("auth.operation", meta.ID()),
		attribute.String("auth.name", meta.Name),
		attribute.Bool("auth.error", false),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("auth.component", meta.Component))
	}
	if meta.Method != "" {
		attrs = append(attrs, attribute.String("auth.method", meta.Method))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("auth.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
