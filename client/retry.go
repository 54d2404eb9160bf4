package client

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/intelluxe-ai/svclink/policy"
)

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait first. Attempt numbering starts at 1 for the first retry; the
// initial call is attempt 0 and is never subject to this policy.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retries after the initial call.
	MaxRetries int

	// Base, Multiplier and Max parameterize the exponential backoff.
	Base       time.Duration
	Multiplier float64
	Max        time.Duration
}

// retryPolicyFor builds the retry policy from a service policy.
func retryPolicyFor(p policy.ServicePolicy) RetryPolicy {
	return RetryPolicy{
		MaxRetries: p.MaxRetries,
		Base:       p.BackoffBase,
		Multiplier: p.BackoffMultiplier,
		Max:        p.BackoffMax,
	}
}

// ShouldRetry reports whether the given retry attempt may proceed. Only
// transient failures and timeouts are retryable; permanent failures and
// breaker rejections never are, regardless of attempt number.
func (r RetryPolicy) ShouldRetry(attempt int, outcome Outcome) bool {
	if attempt > r.MaxRetries {
		return false
	}
	return outcome == OutcomeTransient || outcome == OutcomeTimeout
}

// DelayFor returns the backoff before retry attempt n (1-based):
//
//	delay = min(Max, Base * Multiplier^(n-1))
//
// plus uniform random jitter in [0, delay*0.1) so concurrent callers do not
// retry in lockstep.
func (r RetryPolicy) DelayFor(attempt int) time.Duration {
	delay := r.baseDelay(attempt)

	if delay > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay)/10 + 1))
	}
	return delay
}

// baseDelay is DelayFor without jitter.
func (r RetryPolicy) baseDelay(attempt int) time.Duration {
	if attempt < 1 || r.Base <= 0 {
		return 0
	}

	multiplier := math.Pow(r.Multiplier, float64(attempt-1))
	delay := time.Duration(float64(r.Base) * multiplier)

	if delay > r.Max || delay <= 0 {
		// <= 0 catches overflow on large attempt counts.
		delay = r.Max
	}
	return delay
}
