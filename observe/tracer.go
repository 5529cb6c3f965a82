package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanName returns the deterministic span name for a transition into
// the named sleep state. Format: machine.suspend.<state>
func SpanName(state string) string {
	return "machine.suspend." + state
}

// Tracer wraps OpenTelemetry tracing with transition span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span covering one sleep transition.
	StartSpan(ctx context.Context, state string) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with the target state as an attribute.
func (t *tracerImpl) StartSpan(ctx context.Context, state string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("power.state", state),
		attribute.Bool("power.error", false), // Will be updated in EndSpan if error
	}

	ctx, span := t.tracer.Start(ctx, SpanName(state),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("power.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, state string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, SpanName(state))
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
