package policy

import (
	"strings"
	"testing"
	"time"
)

// validPolicy returns a policy that passes validation. Numeric values are
// the documented test defaults (timeout=5s, failure_threshold=5,
// recovery_timeout=30s); production values come from configuration.
func validPolicy() ServicePolicy {
	return ServicePolicy{
		Name:              "insurance-verification",
		BaseURL:           "http://insurance-verification.internal:8100",
		Timeout:           5 * time.Second,
		FailureThreshold:  5,
		RecoveryTimeout:   30 * time.Second,
		MaxRetries:        2,
		BackoffBase:       100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		BackoffMax:        5 * time.Second,
	}
}

func TestServicePolicy_Validate(t *testing.T) {
	if err := validPolicy().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestServicePolicy_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServicePolicy)
		wantErr string
	}{
		{"missing name", func(p *ServicePolicy) { p.Name = "" }, "name is required"},
		{"missing base_url", func(p *ServicePolicy) { p.BaseURL = "" }, "base_url is required"},
		{"relative base_url", func(p *ServicePolicy) { p.BaseURL = "/billing" }, "absolute URL"},
		{"zero timeout", func(p *ServicePolicy) { p.Timeout = 0 }, "timeout must be positive"},
		{"negative timeout", func(p *ServicePolicy) { p.Timeout = -time.Second }, "timeout must be positive"},
		{"zero threshold", func(p *ServicePolicy) { p.FailureThreshold = 0 }, "failure_threshold"},
		{"zero recovery", func(p *ServicePolicy) { p.RecoveryTimeout = 0 }, "recovery_timeout"},
		{"negative retries", func(p *ServicePolicy) { p.MaxRetries = -1 }, "max_retries"},
		{"retries without base", func(p *ServicePolicy) { p.BackoffBase = 0 }, "backoff_base"},
		{"multiplier below one", func(p *ServicePolicy) { p.BackoffMultiplier = 0.5 }, "backoff_multiplier"},
		{"max below base", func(p *ServicePolicy) { p.BackoffMax = time.Millisecond }, "backoff_max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(&p)

			err := p.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestServicePolicy_Validate_NoRetriesSkipsBackoff(t *testing.T) {
	p := validPolicy()
	p.MaxRetries = 0
	p.BackoffBase = 0
	p.BackoffMultiplier = 0
	p.BackoffMax = 0

	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, backoff knobs should be ignored without retries", err)
	}
}
