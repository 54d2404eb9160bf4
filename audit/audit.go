package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/intelluxe-ai/svclink/telemetry"
)

// Record describes one call attempt: which service was addressed, how the
// attempt ended, and what the circuit looked like at that moment. One record
// is emitted per attempt, including attempts rejected at the breaker without
// touching the transport.
type Record struct {
	// Service is the downstream service name.
	Service string

	// Attempt is the zero-based attempt number within one logical call.
	Attempt int

	// Outcome is the classified attempt outcome
	// (success, transient-failure, permanent-failure, timeout, circuit-open, canceled).
	Outcome string

	// StatusCode is the upstream HTTP status, when a response was received.
	StatusCode int

	// BreakerState is the circuit state after the outcome was recorded.
	BreakerState string

	// Duration is how long the attempt took. Zero for breaker rejections.
	Duration time.Duration

	// Timestamp is when the attempt started.
	Timestamp time.Time

	// Err is the underlying error text, if any.
	Err string
}

// Sink receives audit records.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: emission is fire-and-forget; a sink must never block the call
//   path for long and has no way to fail it (the client additionally guards
//   Emit against panics).
type Sink interface {
	Emit(ctx context.Context, rec Record)
}

// NopSink discards all records.
type NopSink struct{}

// Emit does nothing.
func (NopSink) Emit(ctx context.Context, rec Record) {}

// LoggerSink writes each record as one structured log entry.
type LoggerSink struct {
	log telemetry.Logger
}

// NewLoggerSink creates a sink writing through the given logger.
func NewLoggerSink(log telemetry.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

// Emit logs the record. Failed attempts log at warn, the rest at info.
func (s *LoggerSink) Emit(ctx context.Context, rec Record) {
	fields := []telemetry.Field{
		{Key: "attempt", Value: rec.Attempt},
		{Key: "outcome", Value: rec.Outcome},
		{Key: "breaker_state", Value: rec.BreakerState},
		{Key: "duration_ms", Value: float64(rec.Duration.Microseconds()) / 1000.0},
	}
	if rec.StatusCode != 0 {
		fields = append(fields, telemetry.Field{Key: "status_code", Value: rec.StatusCode})
	}
	if rec.Err != "" {
		fields = append(fields, telemetry.Field{Key: "error", Value: rec.Err})
	}

	log := s.log.WithService(rec.Service)
	if rec.Outcome == "success" {
		log.Info(ctx, "call attempt", fields...)
		return
	}
	log.Warn(ctx, "call attempt", fields...)
}

// MultiSink fans records out to several sinks in order.
type MultiSink []Sink

// Emit forwards the record to every sink.
func (m MultiSink) Emit(ctx context.Context, rec Record) {
	for _, s := range m {
		s.Emit(ctx, rec)
	}
}

// statusClass collapses a status code into its class ("2xx", "5xx", ...)
// to keep metric cardinality bounded.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "none"
	}
	return strconv.Itoa(code/100) + "xx"
}
