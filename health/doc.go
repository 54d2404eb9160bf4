// Package health probes the /health endpoints of downstream services
// through the resilient client, so probes share the breakers, policies and
// audit trail of business traffic.
//
// A service behind an open circuit reports degraded rather than unhealthy:
// the breaker is shedding load, the probe never reached the service.
// Concurrent probes of the same service are collapsed into one request.
package health
