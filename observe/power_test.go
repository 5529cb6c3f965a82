package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestPowerMonitor_SuccessPath verifies a successful transition records telemetry.
func TestPowerMonitor_SuccessPath(t *testing.T) {
	// Set up tracing
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	tracer := &tracerImpl{tracer: tp.Tracer("test")}

	// Set up metrics
	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	monitor := NewPowerMonitor(tracer, metrics, &noopLogger{})

	ctx := monitor.SuspendStart(context.Background(), "mem")
	monitor.SuspendEnd(ctx, "mem", nil)

	// Verify span was recorded
	spans := spanRecorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "machine.suspend.mem" {
		t.Errorf("expected span name 'machine.suspend.mem', got %q", spans[0].Name())
	}

	// Verify metrics
	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	totalMetric := findMetric(rm, "pm.suspend.total")
	if totalMetric == nil {
		t.Error("pm.suspend.total metric not found")
	}
}

// TestPowerMonitor_ErrorPath verifies a failed transition records error telemetry.
func TestPowerMonitor_ErrorPath(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	tracer := &tracerImpl{tracer: tp.Tracer("test")}

	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	monitor := NewPowerMonitor(tracer, metrics, &noopLogger{})

	testErr := errors.New("device suspend failed")
	ctx := monitor.SuspendStart(context.Background(), "mem")
	monitor.SuspendEnd(ctx, "mem", testErr)

	// Verify span has error status
	spans := spanRecorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	// Check power.error attribute
	var powerError bool
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "power.error" {
			powerError = attr.Value.AsBool()
		}
	}
	if !powerError {
		t.Error("expected power.error=true on failed transition")
	}

	// Verify error metric incremented
	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	errMetric := findMetric(rm, "pm.suspend.errors")
	if errMetric == nil {
		t.Error("pm.suspend.errors metric not found")
	} else {
		sum, ok := errMetric.Data.(metricdata.Sum[int64])
		if ok && len(sum.DataPoints) > 0 && sum.DataPoints[0].Value != 1 {
			t.Errorf("expected errors count 1, got %d", sum.DataPoints[0].Value)
		}
	}
}

// TestPowerMonitor_PropagatesContext verifies context values flow through.
func TestPowerMonitor_PropagatesContext(t *testing.T) {
	monitor := NewPowerMonitor(newNoopTracer(), &noopMetrics{}, &noopLogger{})

	type ctxKey string
	testKey := ctxKey("test")
	testValue := "test_value"

	ctx := context.WithValue(context.Background(), testKey, testValue)
	ctx = monitor.SuspendStart(ctx, "freeze")

	if got := ctx.Value(testKey); got != testValue {
		t.Errorf("expected context value %q, got %v", testValue, got)
	}

	monitor.SuspendEnd(ctx, "freeze", nil)
}

// TestPowerMonitor_ForeignContextIgnored verifies SuspendEnd tolerates a
// context that never went through SuspendStart.
func TestPowerMonitor_ForeignContextIgnored(t *testing.T) {
	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	monitor := NewPowerMonitor(newNoopTracer(), metrics, &noopLogger{})

	// Must not panic and must not record anything.
	monitor.SuspendEnd(context.Background(), "mem", nil)

	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	found := findMetric(rm, "pm.suspend.total")
	if found != nil {
		sum, ok := found.Data.(metricdata.Sum[int64])
		if ok && len(sum.DataPoints) > 0 && sum.DataPoints[0].Value != 0 {
			t.Errorf("expected no transitions recorded, got %d", sum.DataPoints[0].Value)
		}
	}
}

// TestPowerMonitor_MeasuresDuration verifies duration is recorded.
func TestPowerMonitor_MeasuresDuration(t *testing.T) {
	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	metrics, _ := newMetrics(mp.Meter("test"))

	monitor := NewPowerMonitor(newNoopTracer(), metrics, &noopLogger{})

	ctx := monitor.SuspendStart(context.Background(), "mem")
	time.Sleep(100 * time.Millisecond)
	monitor.SuspendEnd(ctx, "mem", nil)

	var rm metricdata.ResourceMetrics
	if err := metricReader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	durationMetric := findMetric(rm, "pm.suspend.duration_ms")
	if durationMetric == nil {
		t.Fatal("pm.suspend.duration_ms metric not found")
	}

	hist, ok := durationMetric.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram, got %T", durationMetric.Data)
	}

	if len(hist.DataPoints) == 0 {
		t.Fatal("no histogram data points")
	}

	// Duration should be at least 100ms
	if hist.DataPoints[0].Sum < 90 {
		t.Errorf("expected duration >= 90ms, got %f", hist.DataPoints[0].Sum)
	}
}

// TestPowerMonitor_FromObserver verifies construction from an Observer.
func TestPowerMonitor_FromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	defer func() {
		_ = obs.Shutdown(context.Background())
	}()

	monitor, err := PowerMonitorFromObserver(obs)
	if err != nil {
		t.Fatalf("PowerMonitorFromObserver failed: %v", err)
	}
	if monitor == nil {
		t.Fatal("expected non-nil monitor")
	}

	ctx := monitor.SuspendStart(context.Background(), "freeze")
	monitor.SuspendEnd(ctx, "freeze", nil)
}

// TestPowerMonitor_FromNilObserver verifies the nil observer error.
func TestPowerMonitor_FromNilObserver(t *testing.T) {
	_, err := PowerMonitorFromObserver(nil)
	if !errors.Is(err, ErrNilObserver) {
		t.Fatalf("expected ErrNilObserver, got: %v", err)
	}
}
