package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token attached to outbound requests.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Token should honor cancellation/deadlines where applicable.
type TokenSource interface {
	// Token returns a token valid for at least the next request.
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed, pre-issued token.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a source for a pre-issued token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the static token.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

// MinterConfig configures the service-identity token minter.
type MinterConfig struct {
	// Key is the HMAC signing key shared with the downstream services.
	Key []byte

	// Issuer is the calling service identity (iss claim).
	Issuer string

	// Audience is the downstream platform audience (aud claim).
	Audience string

	// TTL is the token lifetime. Tokens are reused until close to expiry.
	TTL time.Duration

	// Clock overrides the time source. Nil means time.Now.
	Clock func() time.Time
}

// Minter mints short-lived HS256 service-identity tokens and reuses them
// until they approach expiry.
type Minter struct {
	cfg MinterConfig
	now func() time.Time

	mu      sync.Mutex
	cached  string
	refresh time.Time
}

// NewMinter creates a minter. The key, issuer and TTL are required.
func NewMinter(cfg MinterConfig) (*Minter, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("auth: signing key is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("auth: issuer is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("auth: ttl must be positive, got %v", cfg.TTL)
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Minter{cfg: cfg, now: now}, nil
}

// Token returns the cached token, minting a fresh one when the previous
// token is within 10% of its TTL from expiring.
func (m *Minter) Token(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.cached != "" && now.Before(m.refresh) {
		return m.cached, nil
	}

	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   m.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
	}
	if m.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.cfg.Audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	m.cached = token
	m.refresh = now.Add(m.cfg.TTL - m.cfg.TTL/10)
	return token, nil
}

var _ TokenSource = (*StaticTokenSource)(nil)
var _ TokenSource = (*Minter)(nil)
