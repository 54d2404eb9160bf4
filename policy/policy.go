package policy

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ServicePolicy describes how the resilient client treats one named
// downstream service: where to reach it, how long each attempt may take,
// when its circuit breaker opens, and how retries back off.
//
// Policies are immutable after registration and safe to share across
// concurrent calls.
type ServicePolicy struct {
	// Name identifies the downstream service (e.g., "insurance-verification").
	Name string

	// BaseURL is the network endpoint requests are issued against.
	BaseURL string

	// Timeout bounds each individual transport attempt. It is not
	// cumulative across retries.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures before the
	// circuit breaker opens.
	FailureThreshold int

	// RecoveryTimeout is how long the breaker stays open before probing.
	RecoveryTimeout time.Duration

	// MaxRetries is the maximum number of additional attempts after the
	// first. Zero disables retries.
	MaxRetries int

	// BackoffBase, BackoffMultiplier and BackoffMax parameterize the
	// exponential retry backoff:
	//
	//	delay(n) = min(BackoffMax, BackoffBase * BackoffMultiplier^(n-1))
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration
}

// Validate checks the policy invariants. There are deliberately no
// defaults: every numeric knob is a configuration input, and a policy that
// omits one is rejected at load time rather than silently patched.
func (p ServicePolicy) Validate() error {
	if p.Name == "" {
		return errors.New("policy: name is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("policy %q: base_url is required", p.Name)
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("policy %q: base_url %q is not an absolute URL", p.Name, p.BaseURL)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("policy %q: timeout must be positive, got %v", p.Name, p.Timeout)
	}
	if p.FailureThreshold < 1 {
		return fmt.Errorf("policy %q: failure_threshold must be >= 1, got %d", p.Name, p.FailureThreshold)
	}
	if p.RecoveryTimeout <= 0 {
		return fmt.Errorf("policy %q: recovery_timeout must be positive, got %v", p.Name, p.RecoveryTimeout)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("policy %q: max_retries must be >= 0, got %d", p.Name, p.MaxRetries)
	}
	if p.MaxRetries > 0 {
		if p.BackoffBase <= 0 {
			return fmt.Errorf("policy %q: backoff_base must be positive when retries are enabled", p.Name)
		}
		if p.BackoffMultiplier < 1 {
			return fmt.Errorf("policy %q: backoff_multiplier must be >= 1, got %g", p.Name, p.BackoffMultiplier)
		}
		if p.BackoffMax < p.BackoffBase {
			return fmt.Errorf("policy %q: backoff_max must be >= backoff_base", p.Name)
		}
	}
	return nil
}
