package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/intelluxe-ai/svclink/client"
	"github.com/intelluxe-ai/svclink/policy"
)

// Caller is the slice of the resilient client the prober needs. Probes go
// through the same client as business traffic so they share its breakers,
// policies and audit trail.
type Caller interface {
	Call(ctx context.Context, service string, req client.Request) (*client.Response, error)
}

// Prober probes the health endpoints of the configured downstream services.
// Concurrent probes of the same service are collapsed into one in-flight
// request.
type Prober struct {
	caller   Caller
	policies *policy.Store
	path     string

	group singleflight.Group
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithPath overrides the probed endpoint path. Default is /health.
func WithPath(path string) ProberOption {
	return func(p *Prober) {
		p.path = path
	}
}

// NewProber creates a prober over the client's policy store.
func NewProber(caller Caller, policies *policy.Store, opts ...ProberOption) *Prober {
	p := &Prober{
		caller:   caller,
		policies: policies,
		path:     "/health",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check probes one service. Concurrent checks of the same service share a
// single probe; every caller receives the shared result.
func (p *Prober) Check(ctx context.Context, service string) Result {
	v, _, _ := p.group.Do(service, func() (any, error) {
		return p.probe(ctx, service), nil
	})
	return v.(Result)
}

// CheckAll probes every configured service concurrently and returns the
// results keyed by service name.
func (p *Prober) CheckAll(ctx context.Context) map[string]Result {
	names := p.policies.Names()
	results := make(map[string]Result, len(names))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			r := p.Check(ctx, name)
			mu.Lock()
			results[name] = r
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return results
}

func (p *Prober) probe(ctx context.Context, service string) Result {
	started := time.Now()
	resp, err := p.caller.Call(ctx, service, client.Request{
		Method: http.MethodGet,
		Path:   p.path,
	})

	result := Result{
		Service:   service,
		Duration:  time.Since(started),
		CheckedAt: started,
	}

	if err == nil {
		result.Status = StatusHealthy
		result.StatusCode = resp.StatusCode
		return result
	}

	result.Err = err
	result.Status = StatusUnhealthy

	var ce *client.CallError
	if errors.As(err, &ce) {
		result.StatusCode = ce.StatusCode
		// An open circuit means traffic is being shed, not that the probe
		// reached the service and got a refusal.
		if ce.Kind == client.KindCircuitOpen {
			result.Status = StatusDegraded
		}
	}
	return result
}

// Summary renders a one-line fleet summary, e.g. for operator logs.
func Summary(results map[string]Result) string {
	healthy, degraded, unhealthy := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusHealthy:
			healthy++
		case StatusDegraded:
			degraded++
		default:
			unhealthy++
		}
	}
	return fmt.Sprintf("%s: %d healthy, %d degraded, %d unhealthy",
		Overall(results), healthy, degraded, unhealthy)
}
