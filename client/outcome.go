package client

import (
	"context"
	"errors"
)

// Outcome classifies how one call attempt ended.
type Outcome int

const (
	// OutcomeSuccess is a 2xx/3xx response.
	OutcomeSuccess Outcome = iota
	// OutcomeTransient is a network-level failure or 5xx response;
	// retrying may succeed.
	OutcomeTransient
	// OutcomePermanent is a 4xx response; retrying will not fix it.
	OutcomePermanent
	// OutcomeTimeout means the per-attempt budget elapsed.
	OutcomeTimeout
	// OutcomeCircuitOpen means the breaker rejected the attempt before the
	// transport was invoked.
	OutcomeCircuitOpen
	// OutcomeCanceled means the caller abandoned the call mid-attempt.
	OutcomeCanceled
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransient:
		return "transient-failure"
	case OutcomePermanent:
		return "permanent-failure"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeCircuitOpen:
		return "circuit-open"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// classify maps a transport result to an outcome. The parent context
// disambiguates a per-attempt timeout from the caller's own deadline or
// cancellation: if the caller is gone, the attempt says nothing about the
// downstream service.
func classify(parent context.Context, resp *Response, err error) Outcome {
	if err != nil {
		switch {
		case parent.Err() != nil:
			return OutcomeCanceled
		case errors.Is(err, context.DeadlineExceeded):
			return OutcomeTimeout
		default:
			return OutcomeTransient
		}
	}

	switch {
	case resp.StatusCode >= 500:
		return OutcomeTransient
	case resp.StatusCode >= 400:
		return OutcomePermanent
	default:
		return OutcomeSuccess
	}
}
