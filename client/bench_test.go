package client

import (
	"context"
	"testing"

	"github.com/intelluxe-ai/svclink/policy"
)

func benchStore(b *testing.B) *policy.Store {
	b.Helper()
	s := policy.NewStore()
	if err := s.Register(testPolicy()); err != nil {
		b.Fatalf("Register() error = %v", err)
	}
	return s
}

// BenchmarkClient_CallSuccess measures the happy path: policy lookup,
// breaker gate, one transport invocation, audit emission.
func BenchmarkClient_CallSuccess(b *testing.B) {
	transport := &fakeTransport{fn: respond(200)}
	c := New(benchStore(b), WithTransport(transport))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Call(ctx, "insurance-verification", Request{Path: "/v1/verify"}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkClient_CallCircuitOpen measures the fail-fast rejection path.
func BenchmarkClient_CallCircuitOpen(b *testing.B) {
	p := testPolicy()
	p.FailureThreshold = 1
	p.MaxRetries = 0

	s := policy.NewStore()
	if err := s.Register(p); err != nil {
		b.Fatalf("Register() error = %v", err)
	}

	transport := &fakeTransport{fn: respond(500)}
	c := New(s, WithTransport(transport))
	ctx := context.Background()

	// Open the circuit.
	_, _ = c.Call(ctx, "insurance-verification", Request{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Call(ctx, "insurance-verification", Request{})
	}
}

// BenchmarkClient_CallParallel measures concurrent calls sharing one breaker.
func BenchmarkClient_CallParallel(b *testing.B) {
	transport := &fakeTransport{fn: respond(200)}
	c := New(benchStore(b), WithTransport(transport))

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := c.Call(ctx, "insurance-verification", Request{}); err != nil {
				b.Fatal(err)
			}
		}
	})
}
