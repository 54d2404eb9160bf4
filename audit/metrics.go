package audit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records call and breaker telemetry. It doubles as a Sink so it can
// sit next to a logging sink in a MultiSink.
type Metrics struct {
	attempts    metric.Int64Counter
	failures    metric.Int64Counter
	transitions metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewMetrics creates the call instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	attempts, err := meter.Int64Counter(
		"svclink.call.attempts",
		metric.WithDescription("Total number of call attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"svclink.call.failures",
		metric.WithDescription("Total number of failed call attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"svclink.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"svclink.call.duration_ms",
		metric.WithDescription("Call attempt duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		attempts:    attempts,
		failures:    failures,
		transitions: transitions,
		duration:    duration,
	}, nil
}

// Emit records the attempt instruments for one audit record.
func (m *Metrics) Emit(ctx context.Context, rec Record) {
	attrs := []attribute.KeyValue{
		attribute.String("service", rec.Service),
		attribute.String("outcome", rec.Outcome),
		attribute.String("status_class", statusClass(rec.StatusCode)),
	}
	opt := metric.WithAttributes(attrs...)

	m.attempts.Add(ctx, 1, opt)
	if rec.Outcome != "success" {
		m.failures.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(rec.Duration.Microseconds())/1000.0, opt)
}

// RecordTransition counts one breaker state transition. Wire it through
// breaker.WithStateChangeHook.
func (m *Metrics) RecordTransition(ctx context.Context, service, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

var _ Sink = (*Metrics)(nil)
