package policy

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load parses a YAML policy document and returns a populated store.
//
// The expected format is a `services` list, with durations written in Go
// notation ("5s", "250ms"). `${VAR}` references are expanded from the
// environment before parsing and must resolve:
//
//	services:
//	  - name: insurance-verification
//	    base_url: ${INSURANCE_VERIFICATION_URL}
//	    timeout: 5s
//	    failure_threshold: 5
//	    recovery_timeout: 30s
//	    max_retries: 2
//	    backoff_base: 100ms
//	    backoff_multiplier: 2.0
//	    backoff_max: 5s
func Load(data []byte) (*Store, error) {
	expanded, err := expandEnvStrict(string(data))
	if err != nil {
		return nil, err
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("policy: parse configuration: %w", err)
	}
	if len(doc.Services) == 0 {
		return nil, fmt.Errorf("policy: configuration declares no services")
	}

	store := NewStore()
	for _, raw := range doc.Services {
		p, err := raw.toPolicy()
		if err != nil {
			return nil, err
		}
		if err := store.Register(p); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// LoadFile reads and parses a YAML policy file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read configuration: %w", err)
	}
	return Load(data)
}

type document struct {
	Services []rawPolicy `yaml:"services"`
}

// rawPolicy is the wire form of ServicePolicy; durations arrive as strings.
type rawPolicy struct {
	Name              string  `yaml:"name"`
	BaseURL           string  `yaml:"base_url"`
	Timeout           string  `yaml:"timeout"`
	FailureThreshold  int     `yaml:"failure_threshold"`
	RecoveryTimeout   string  `yaml:"recovery_timeout"`
	MaxRetries        int     `yaml:"max_retries"`
	BackoffBase       string  `yaml:"backoff_base"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	BackoffMax        string  `yaml:"backoff_max"`
}

func (r rawPolicy) toPolicy() (ServicePolicy, error) {
	p := ServicePolicy{
		Name:              r.Name,
		BaseURL:           r.BaseURL,
		FailureThreshold:  r.FailureThreshold,
		MaxRetries:        r.MaxRetries,
		BackoffMultiplier: r.BackoffMultiplier,
	}

	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"timeout", r.Timeout, &p.Timeout},
		{"recovery_timeout", r.RecoveryTimeout, &p.RecoveryTimeout},
		{"backoff_base", r.BackoffBase, &p.BackoffBase},
		{"backoff_max", r.BackoffMax, &p.BackoffMax},
	} {
		if f.value == "" {
			continue
		}
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return ServicePolicy{}, fmt.Errorf("policy %q: %s: %w", r.Name, f.name, err)
		}
		*f.dst = d
	}

	return p, nil
}
