package breaker

import "sync"

// Registry maps service names to their breakers. It is passed explicitly to
// whatever composes calls (never ambient package state), so tests and
// independent clients can hold isolated breaker populations.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	onChange func(service string, from, to State)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStateChangeHook registers a hook invoked on every breaker state
// transition. The hook runs under the breaker lock and must return quickly.
func WithStateChangeHook(fn func(service string, from, to State)) RegistryOption {
	return func(r *Registry) {
		r.onChange = fn
	}
}

// NewRegistry creates an empty breaker registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{breakers: make(map[string]*Breaker)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the breaker for the named service, creating it lazily on
// first use. The config only applies at creation time; later calls return
// the existing breaker regardless of cfg.
func (r *Registry) Get(service string, cfg Config) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[service]; ok {
		return b
	}

	if hook := r.onChange; hook != nil {
		inner := cfg.OnStateChange
		cfg.OnStateChange = func(from, to State) {
			hook(service, from, to)
			if inner != nil {
				inner(from, to)
			}
		}
	}

	b := New(cfg)
	r.breakers[service] = b
	return b
}

// Snapshot returns the current state of every known breaker.
func (r *Registry) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Snapshot, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Snapshot()
	}
	return out
}
