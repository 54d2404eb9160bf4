package telemetry

import (
	"context"
	"strings"
	"testing"
)

// TestConfigValidate_Valid verifies that a fully valid config passes validation.
func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "clinic-gateway",
		Version:     "1.0.0",
		Tracing: TracingConfig{
			Enabled:     true,
			Exporter:    "stdout",
			SampleRatio: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Exporter: "stdout",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

// TestConfigValidate_MissingServiceName verifies that empty ServiceName fails validation.
func TestConfigValidate_MissingServiceName(t *testing.T) {
	cfg := Config{Version: "1.0.0"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing service name, got nil")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "service name") {
		t.Errorf("expected error to contain 'service name', got: %v", err)
	}
}

// TestConfigValidate_UnknownExporters verifies unknown exporter names fail validation.
func TestConfigValidate_UnknownExporters(t *testing.T) {
	tracing := Config{
		ServiceName: "clinic-gateway",
		Tracing:     TracingConfig{Enabled: true, Exporter: "unknown"},
	}
	if err := tracing.Validate(); err == nil {
		t.Error("expected error for unknown tracing exporter")
	}

	metrics := Config{
		ServiceName: "clinic-gateway",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "badvalue"},
	}
	if err := metrics.Validate(); err == nil {
		t.Error("expected error for unknown metrics exporter")
	}
}

// TestConfigValidate_SampleRatioBounds verifies out-of-range sampling fails validation.
func TestConfigValidate_SampleRatioBounds(t *testing.T) {
	cfg := Config{
		ServiceName: "clinic-gateway",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SampleRatio: 1.5},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sample ratio > 1.0")
	}
}

// TestNew_Disabled verifies all-disabled config yields working no-ops.
func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), Config{ServiceName: "clinic-gateway"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if tel.Tracer() == nil {
		t.Error("Tracer() = nil, want noop tracer")
	}
	if tel.Meter() == nil {
		t.Error("Meter() = nil, want noop meter")
	}
	if tel.Logger() == nil {
		t.Error("Logger() = nil, want noop logger")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestNew_InvalidConfig verifies invalid config is rejected.
func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing service name")
	}
}
