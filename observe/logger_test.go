package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_IncludesSubsystem verifies the subsystem field is present in log output.
func TestLogger_IncludesSubsystem(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	subLogger := logger.WithSubsystem("suspend")
	subLogger.Info(context.Background(), "test message")

	output := buf.String()

	// Parse JSON output
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, output)
	}

	if v, ok := logEntry["subsystem"].(string); !ok || v != "suspend" {
		t.Errorf("expected subsystem='suspend', got %v", logEntry["subsystem"])
	}
}

// TestLogger_IncludesDuration verifies duration_ms field is present.
func TestLogger_IncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	subLogger := logger.WithSubsystem("suspend")
	subLogger.Info(context.Background(), "test message",
		Field{Key: "duration_ms", Value: 50.5},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["duration_ms"].(float64); !ok || v != 50.5 {
		t.Errorf("expected duration_ms=50.5, got %v", logEntry["duration_ms"])
	}
}

// TestLogger_ErrorLevel verifies error log level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	subLogger := logger.WithSubsystem("devices")
	subLogger.Error(context.Background(), "device suspend failed",
		Field{Key: "error", Value: "firmware timeout"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	// Verify level
	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}

	// Verify error field
	if v, ok := logEntry["error"].(string); !ok || v != "firmware timeout" {
		t.Errorf("expected error='firmware timeout', got %v", logEntry["error"])
	}
}

// TestLogger_InfoLevel verifies info log level.
func TestLogger_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "transition complete")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "info" {
		t.Errorf("expected level='info', got %v", logEntry["level"])
	}
}

// TestLogger_SecretsRedacted verifies sensitive fields are not logged.
func TestLogger_SecretsRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "wake configured",
		Field{Key: "token", Value: "secret_password_123"},
	)

	output := buf.String()

	// The raw value should NOT appear
	if strings.Contains(output, "secret_password_123") {
		t.Error("raw secret should be redacted, but found in output")
	}

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}
	if v, ok := logEntry["token"].(string); !ok || v != "[REDACTED]" {
		t.Errorf("expected token='[REDACTED]', got %v", logEntry["token"])
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	// Info should be filtered out
	logger.Info(context.Background(), "info message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	// Warn should pass through
	logger.Warn(context.Background(), "warn message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_DebugLevel verifies debug level filtering.
func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Debug(context.Background(), "debug message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "debug" {
		t.Errorf("expected level='debug', got %v", logEntry["level"])
	}
}

// TestLogger_WarnLevel verifies warn level.
func TestLogger_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Warn(context.Background(), "storage sync slow")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "warn" {
		t.Errorf("expected level='warn', got %v", logEntry["level"])
	}
}

// TestLogger_SubsystemChaining verifies nested subsystem loggers keep the last name.
func TestLogger_SubsystemChaining(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	subLogger := logger.WithSubsystem("suspend").WithSubsystem("freezer")
	subLogger.Info(context.Background(), "test")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["subsystem"].(string); !ok || v != "freezer" {
		t.Errorf("expected subsystem='freezer', got %v", logEntry["subsystem"])
	}
}
