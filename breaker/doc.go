// Package breaker implements the per-service circuit breaker used by the
// resilient client.
//
// Each downstream service gets an independent three-state machine
// (closed, open, half-open). Callers gate every attempt with Allow and
// report the classified outcome with RecordSuccess, RecordFailure,
// RecordPermanent or RecordCanceled; the breaker never runs the call
// itself. The open-to-half-open transition is lazy: it happens on the next
// Allow or State call after the recovery timeout elapses, not on a
// background timer.
package breaker
