package health

import (
	"time"
)

// Status represents the probed health of a downstream service.
type Status int

const (
	// StatusHealthy means the service answered its health endpoint.
	StatusHealthy Status = iota
	// StatusDegraded means the circuit to the service is open: it was
	// recently failing and probes are being shed until recovery.
	StatusDegraded
	// StatusUnhealthy means the probe itself failed.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one health probe.
type Result struct {
	// Service is the probed service name.
	Service string

	// Status is the probed status.
	Status Status

	// StatusCode is the HTTP status returned by the health endpoint, when
	// a response was received.
	StatusCode int

	// Duration is how long the probe took.
	Duration time.Duration

	// CheckedAt is when the probe started.
	CheckedAt time.Time

	// Err is the probe error, if any.
	Err error
}

// Overall computes fleet status from a set of probe results: unhealthy if
// any service is unhealthy, degraded if any is degraded, healthy otherwise.
// An empty fleet is healthy.
func Overall(results map[string]Result) Status {
	overall := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}
