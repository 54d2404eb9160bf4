package client

import (
	"fmt"
)

// Kind is the failure taxonomy surfaced to callers. A CircuitOpen or
// ExhaustedRetries result means "this dependency is temporarily
// unavailable" and should degrade the caller's response, never crash it.
type Kind int

const (
	// KindUnknownService means no policy is registered for the service.
	// This is a configuration error and is never retried.
	KindUnknownService Kind = iota
	// KindCircuitOpen means the breaker rejected the call without a
	// transport invocation.
	KindCircuitOpen
	// KindTimeout means a per-attempt timeout elapsed.
	KindTimeout
	// KindConnection means a network-level transport failure.
	KindConnection
	// KindUpstream means the service answered with an error status.
	KindUpstream
	// KindExhaustedRetries means all permitted retries for a transient
	// condition were consumed; Cause carries the last underlying kind.
	KindExhaustedRetries
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknownService:
		return "unknown-service"
	case KindCircuitOpen:
		return "circuit-open"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection-error"
	case KindUpstream:
		return "upstream-error"
	case KindExhaustedRetries:
		return "exhausted-retries"
	default:
		return "unknown"
	}
}

// CallError is the failure result of Call. It is always returned as a
// value, never panicked, so callers handle the failure path explicitly.
type CallError struct {
	// Service is the downstream service name.
	Service string

	// Kind is the failure classification.
	Kind Kind

	// Cause is the kind of the last attempt when Kind is
	// KindExhaustedRetries.
	Cause Kind

	// StatusCode is the last upstream status, when a response was received.
	StatusCode int

	// Attempts is the number of transport invocations made.
	Attempts int

	// Err is the last underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *CallError) Error() string {
	msg := fmt.Sprintf("client: call %s failed: %s", e.Service, e.Kind)
	if e.Kind == KindExhaustedRetries {
		msg += fmt.Sprintf(" (last: %s, %d attempts)", e.Cause, e.Attempts)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, enabling errors.Is checks against
// breaker.ErrOpen, policy.ErrUnknownService or context errors.
func (e *CallError) Unwrap() error {
	return e.Err
}
