// Package audit carries the structured audit trail of every call attempt
// the resilient client makes, including attempts rejected at the circuit
// breaker. Sinks are fire-and-forget: they can log (LoggerSink), feed
// OpenTelemetry instruments (Metrics), fan out (MultiSink) or discard
// (NopSink), but they can never fail the caller.
package audit
