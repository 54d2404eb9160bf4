// Package telemetry wires up the observability primitives shared by the
// client: an OpenTelemetry tracer and meter behind pluggable exporters
// (otlp, prometheus, stdout, none) and a structured JSON logger with
// PHI-aware field redaction.
//
// Everything is optional: a disabled subsystem resolves to a no-op
// implementation so calling code never branches on configuration.
package telemetry
