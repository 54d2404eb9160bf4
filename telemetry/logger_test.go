package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

// TestLogger_IncludesServiceField verifies the service name is attached to output.
func TestLogger_IncludesServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	svcLogger := logger.WithService("insurance-verification")
	svcLogger.Info(context.Background(), "call attempt")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if v, ok := logEntry["service.name"].(string); !ok || v != "insurance-verification" {
		t.Errorf("expected service.name='insurance-verification', got %v", logEntry["service.name"])
	}
	if v, ok := logEntry["msg"].(string); !ok || v != "call attempt" {
		t.Errorf("expected msg='call attempt', got %v", logEntry["msg"])
	}
}

// TestLogger_LevelFiltering verifies entries below the level are dropped.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "dropped too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn level, got: %s", buf.String())
	}

	logger.Warn(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Fatal("expected warn entry to be written")
	}
}

// TestLogger_PayloadRedaction verifies PHI-adjacent fields are redacted.
func TestLogger_PayloadRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "call attempt",
		Field{Key: "payload", Value: `{"member_id":"M12345"}`},
		Field{Key: "patient_id", Value: "P-9"},
		Field{Key: "token", Value: "abc"},
		Field{Key: "status_code", Value: 200},
	)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	for _, key := range []string{"payload", "patient_id", "token"} {
		if v, ok := logEntry[key].(string); !ok || v != "[REDACTED]" {
			t.Errorf("expected %s='[REDACTED]', got %v", key, logEntry[key])
		}
	}
	if v, ok := logEntry["status_code"].(float64); !ok || v != 200 {
		t.Errorf("expected status_code=200, got %v", logEntry["status_code"])
	}
}

// TestLogger_ErrorLevel verifies error entries carry level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Error(context.Background(), "call failed",
		Field{Key: "error", Value: "connection refused"},
	)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}
	if v, ok := logEntry["error"].(string); !ok || v != "connection refused" {
		t.Errorf("expected error='connection refused', got %v", logEntry["error"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
