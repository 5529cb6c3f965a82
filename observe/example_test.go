package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/powerops/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	// Missing service name triggers validation error
	cfg := observe.Config{
		ServiceName: "", // Empty - will fail validation
	}

	ctx := context.Background()
	_, err := observe.NewObserver(ctx, cfg)
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleConfig_Validate() {
	// Valid configuration
	cfg := observe.Config{
		ServiceName: "my-service",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Configuration is valid")
	}
	// Output:
	// Configuration is valid
}

func ExampleSpanName() {
	fmt.Println(observe.SpanName("mem"))
	fmt.Println(observe.SpanName("freeze"))
	// Output:
	// machine.suspend.mem
	// machine.suspend.freeze
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	ctx := context.Background()
	logger.Info(ctx, "application started", observe.Field{Key: "version", Value: "1.0.0"})

	// Output contains JSON with timestamp, level, msg, and version field
	fmt.Println("Logged message contains 'application started':", bytes.Contains(buf.Bytes(), []byte("application started")))
	// Output:
	// Logged message contains 'application started': true
}

func ExampleLogger_withSubsystem() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	// Create subsystem-scoped logger
	suspendLogger := logger.WithSubsystem("suspend")

	ctx := context.Background()
	suspendLogger.Info(ctx, "entering sleep state")

	// Output carries the subsystem on every entry
	output := buf.String()
	fmt.Println("Contains subsystem:", bytes.Contains([]byte(output), []byte(`"subsystem":"suspend"`)))
	// Output:
	// Contains subsystem: true
}

func ExamplePowerMonitor() {
	ctx := context.Background()

	// Create observer with disabled exporters for example
	cfg := observe.Config{
		ServiceName: "example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: false},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	// Create monitor
	monitor, _ := observe.PowerMonitorFromObserver(obs)

	// Bracket a sleep transition - automatically traced, metered, and logged
	mctx := monitor.SuspendStart(ctx, "mem")
	// ... the machine sleeps and wakes here ...
	monitor.SuspendEnd(mctx, "mem", nil)

	fmt.Println("Transition recorded")
	// Output:
	// Transition recorded
}

func ExampleDeferredWriter() {
	var console bytes.Buffer
	w := observe.NewDeferredWriter(&console)

	// Live output goes straight through
	fmt.Fprintln(w, "going to sleep")

	// Output produced while the console is down is held back
	w.Prepare()
	fmt.Fprintln(w, "devices parked")
	fmt.Println("held while down:", console.Len() == len("going to sleep\n"))

	// Release replays the held output in order
	w.Restore()
	fmt.Print(console.String())
	// Output:
	// held while down: true
	// going to sleep
	// devices parked
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
