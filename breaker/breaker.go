package breaker

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without touching the service.
	StateOpen
	// StateHalfOpen means a single trial call probes for recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config configures one breaker. Values come from the service policy; the
// breaker itself applies no defaults.
type Config struct {
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens. Must be >= 1.
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before the next
	// call is allowed through as a recovery trial.
	RecoveryTimeout time.Duration

	// OnStateChange is called when the circuit state changes. It runs
	// under the breaker lock and must not call back into the breaker.
	OnStateChange func(from, to State)

	// Clock overrides the time source. Nil means time.Now.
	Clock func() time.Time
}

// Breaker is the per-service circuit breaker state machine.
//
// The breaker does not run calls itself: callers gate each attempt with
// Allow and report the classified outcome with one of the Record methods.
// All transitions are serialized by an internal mutex, so concurrent
// callers see a linearizable view of the state.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	trialInFlight bool
}

// New creates a breaker in the closed state.
func New(cfg Config) *Breaker {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Breaker{cfg: cfg, now: now, state: StateClosed}
}

// Allow reports whether a call may proceed.
//
// Open circuits reject with ErrOpen until the recovery timeout has elapsed;
// the first call after that is admitted as the half-open trial. While a
// trial is in flight, additional callers are rejected with ErrOpen so a
// recovering service is never hit by a thundering herd.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.trialInFlight {
			return ErrOpen
		}
		b.trialInFlight = true
	}
	return nil
}

// RecordSuccess reports a successful attempt. Any state returns to closed
// and the consecutive failure count resets.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false
	b.failures = 0
	if b.state != StateClosed {
		b.setStateLocked(StateClosed)
	}
}

// RecordFailure reports a transient failure (network error, timeout or
// 5xx-equivalent). In the closed state it counts toward the failure
// threshold; a failed half-open trial reopens the circuit and restarts the
// recovery clock.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.openedAt = b.now()
			b.setStateLocked(StateOpen)
		}
	case StateHalfOpen:
		b.trialInFlight = false
		b.openedAt = b.now()
		b.setStateLocked(StateOpen)
	}
}

// RecordPermanent reports a 4xx-equivalent outcome. The downstream service
// answered, so this is not evidence of ill health: in the closed state the
// failure count is untouched, and a half-open trial that gets a permanent
// failure still proves the service reachable and closes the circuit.
func (b *Breaker) RecordPermanent() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.trialInFlight = false
		b.failures = 0
		b.setStateLocked(StateClosed)
	}
}

// RecordCanceled reports an attempt abandoned by its caller before any
// verdict on the service was reached. State is unchanged; a half-open trial
// slot is released so the next caller can probe.
func (b *Breaker) RecordCanceled() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trialInFlight = false
}

// State returns the current circuit state, applying the lazy open-to-half-
// open transition if the recovery timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Snapshot returns the current observable breaker state.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		State:               b.currentStateLocked(),
		ConsecutiveFailures: b.failures,
		OpenedAt:            b.openedAt,
	}
}

func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.RecoveryTimeout {
		b.trialInFlight = false
		b.setStateLocked(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setStateLocked(state State) {
	old := b.state
	b.state = state
	if old != state && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(old, state)
	}
}

// Snapshot contains the observable breaker state at one instant.
type Snapshot struct {
	State               State
	ConsecutiveFailures int
	OpenedAt            time.Time
}
