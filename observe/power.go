package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// PowerMonitor observes whole sleep transitions with tracing, metrics,
// and logging. SuspendStart opens a span and stashes the transition
// record in the returned context; SuspendEnd closes it out.
//
// Contract:
//   - Concurrency: safe for concurrent use, though a sane caller runs
//     one transition at a time.
//   - Context: the context returned by SuspendStart must be the one
//     passed to SuspendEnd.
//   - Errors: the transition error is recorded and never altered.
type PowerMonitor struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewPowerMonitor creates a PowerMonitor from the given observability
// components.
func NewPowerMonitor(tracer Tracer, metrics Metrics, logger Logger) *PowerMonitor {
	return &PowerMonitor{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// PowerMonitorFromObserver creates a PowerMonitor from an Observer.
// This is a convenience function for common use cases.
func PowerMonitorFromObserver(obs Observer) (*PowerMonitor, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewPowerMonitor(tracer, metrics, obs.Logger()), nil
}

// record carries one in-flight transition from SuspendStart to
// SuspendEnd.
type record struct {
	span  trace.Span
	start time.Time
}

// monitorKey is the context key for the in-flight transition record.
type monitorKey struct{}

// SuspendStart opens the telemetry bracket for a transition into the
// named state. The returned context carries the span and start time
// and must be handed back to SuspendEnd.
func (m *PowerMonitor) SuspendStart(ctx context.Context, state string) context.Context {
	ctx, span := m.tracer.StartSpan(ctx, state)
	return context.WithValue(ctx, monitorKey{}, &record{
		span:  span,
		start: time.Now(),
	})
}

// SuspendEnd closes the telemetry bracket: the span ends, the
// transition outcome is metered, and the result is logged. A context
// that did not come from SuspendStart is ignored.
func (m *PowerMonitor) SuspendEnd(ctx context.Context, state string, err error) {
	rec, ok := ctx.Value(monitorKey{}).(*record)
	if !ok {
		return
	}
	duration := time.Since(rec.start)

	// End span (records error status if err != nil)
	m.tracer.EndSpan(rec.span, err)

	// Record metrics
	m.metrics.RecordTransition(ctx, state, duration, err)

	// Log the transition
	logger := m.logger.WithSubsystem("suspend")
	fields := []Field{
		{Key: "state", Value: state},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "sleep transition failed", fields...)
	} else {
		logger.Info(ctx, "sleep transition completed", fields...)
	}
}
