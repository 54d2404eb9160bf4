package breaker

import (
	"sync"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{FailureThreshold: 2, RecoveryTimeout: 10 * time.Second}
}

func TestRegistry_LazyCreate(t *testing.T) {
	r := NewRegistry()

	b := r.Get("insurance-verification", testConfig())
	if b == nil {
		t.Fatal("Get() returned nil breaker")
	}
	if b.State() != StateClosed {
		t.Errorf("new breaker State() = %v, want closed", b.State())
	}
}

func TestRegistry_SameInstancePerService(t *testing.T) {
	r := NewRegistry()

	first := r.Get("billing-engine", testConfig())
	second := r.Get("billing-engine", testConfig())
	if first != second {
		t.Error("Get() returned different breakers for the same service")
	}

	other := r.Get("compliance-monitor", testConfig())
	if other == first {
		t.Error("Get() shared a breaker across services")
	}
}

func TestRegistry_StateChangeHook(t *testing.T) {
	type event struct {
		service  string
		from, to State
	}
	var mu sync.Mutex
	var events []event

	r := NewRegistry(WithStateChangeHook(func(service string, from, to State) {
		mu.Lock()
		events = append(events, event{service, from, to})
		mu.Unlock()
	}))

	b := r.Get("billing-engine", Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	b.RecordFailure()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0] != (event{"billing-engine", StateClosed, StateOpen}) {
		t.Errorf("event = %+v, want billing-engine closed->open", events[0])
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()

	b := r.Get("billing-engine", Config{FailureThreshold: 5, RecoveryTimeout: time.Hour})
	b.RecordFailure()
	b.RecordFailure()
	r.Get("compliance-monitor", testConfig())

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() has %d entries, want 2", len(snap))
	}
	if snap["billing-engine"].ConsecutiveFailures != 2 {
		t.Errorf("billing-engine failures = %d, want 2", snap["billing-engine"].ConsecutiveFailures)
	}
	if snap["compliance-monitor"].State != StateClosed {
		t.Errorf("compliance-monitor state = %v, want closed", snap["compliance-monitor"].State)
	}
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	breakers := make([]*Breaker, 50)
	for i := range breakers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			breakers[i] = r.Get("shared", testConfig())
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(breakers); i++ {
		if breakers[i] != breakers[0] {
			t.Fatal("concurrent Get() returned different breakers")
		}
	}
}
