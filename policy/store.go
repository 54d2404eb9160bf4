package policy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownService is returned when no policy is registered for a service.
var ErrUnknownService = errors.New("policy: unknown service")

// Store holds the policies for all known downstream services.
//
// Registration happens once at startup; afterwards the store is read-only
// and safe for concurrent lookups. Configuration reload, if ever needed,
// means building a new Store and swapping the reference, never mutating
// policies in place under in-flight calls.
type Store struct {
	mu       sync.RWMutex
	policies map[string]ServicePolicy
}

// NewStore creates an empty policy store.
func NewStore() *Store {
	return &Store{policies: make(map[string]ServicePolicy)}
}

// Register validates and adds a policy. Registering the same service name
// twice is a configuration error.
func (s *Store) Register(p ServicePolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.policies[p.Name]; exists {
		return fmt.Errorf("policy: service %q already registered", p.Name)
	}
	s.policies[p.Name] = p
	return nil
}

// Get returns the policy for the named service.
// It fails with ErrUnknownService if none is registered.
func (s *Store) Get(name string) (ServicePolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[name]
	if !ok {
		return ServicePolicy{}, fmt.Errorf("%w: %q", ErrUnknownService, name)
	}
	return p, nil
}

// Names returns the registered service names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.policies))
	for name := range s.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered policies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.policies)
}
