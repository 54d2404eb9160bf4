// Package policy holds the static per-service configuration consumed by the
// resilient client: endpoint, per-attempt timeout, circuit breaker
// thresholds and retry backoff parameters.
//
// Policies are loaded once at process start (see Load and LoadFile), are
// immutable afterwards, and are shared read-only across all concurrent
// calls to a service. There are no built-in numeric defaults; validation
// rejects incomplete policies at load time.
package policy
