package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// JWTConfig configures minted tokens.
type JWTConfig struct {
	// Issuer is the iss claim.
	Issuer string

	// Audience is the aud claim.
	Audience string

	// Subject is the sub claim.
	Subject string

	// KeyID is set as the kid header when non-empty.
	KeyID string

	// TTL is the token lifetime.
	// Default: 5 minutes
	TTL time.Duration

	// RefreshBefore is how long before expiry a cached token is replaced.
	// Default: 30 seconds, capped at half the TTL
	RefreshBefore time.Duration
}

// KeyProvider retrieves signing keys.
type KeyProvider interface {
	// GetKey returns the key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// KeyProviderFunc adapts a function to KeyProvider.
type KeyProviderFunc func(ctx context.Context, keyID string) (any, error)

// GetKey calls f.
func (f KeyProviderFunc) GetKey(ctx context.Context, keyID string) (any, error) {
	return f(ctx, keyID)
}

// StaticKeyProvider provides a static signing key.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	if len(p.key) == 0 {
		return nil, ErrKeyNotFound
	}
	return p.key, nil
}

// JWTSource mints HS256 bearer tokens and caches the current one.
// It is safe for concurrent use.
type JWTSource struct {
	config JWTConfig
	keys   KeyProvider
	now    func() time.Time
	newID  func() string

	mu     sync.RWMutex
	token  string
	expiry time.Time
	group  singleflight.Group
}

// NewJWTSource creates a token source.
func NewJWTSource(config JWTConfig, keys KeyProvider) (*JWTSource, error) {
	if keys == nil {
		return nil, ErrMissingKey
	}
	if config.TTL < 0 || config.RefreshBefore < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidClaim)
	}
	if config.TTL == 0 {
		config.TTL = 5 * time.Minute
	}
	if config.RefreshBefore == 0 {
		config.RefreshBefore = 30 * time.Second
	}
	if config.RefreshBefore > config.TTL/2 {
		config.RefreshBefore = config.TTL / 2
	}

	return &JWTSource{
		config: config,
		keys:   keys,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Config returns the effective configuration.
func (s *JWTSource) Config() JWTConfig {
	return s.config
}

// Token returns a valid token, minting a new one when the cached token
// is missing or close to expiry.
func (s *JWTSource) Token(ctx context.Context) (string, error) {
	if tok, ok := s.cached(); ok {
		return tok, nil
	}

	v, err, _ := s.group.Do("mint", func() (any, error) {
		if tok, ok := s.cached(); ok {
			return tok, nil
		}
		return s.mint(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *JWTSource) cached() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", false
	}
	if !s.now().Before(s.expiry.Add(-s.config.RefreshBefore)) {
		return "", false
	}
	return s.token, true
}

func (s *JWTSource) mint(ctx context.Context) (string, error) {
	raw, err := s.keys.GetKey(ctx, s.config.KeyID)
	if err != nil {
		return "", fmt.Errorf("auth: get signing key: %w", err)
	}
	key, ok := raw.([]byte)
	if !ok || len(key) == 0 {
		return "", ErrInvalidKey
	}

	now := s.now()
	expiry := now.Add(s.config.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    s.config.Issuer,
		Subject:   s.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        s.newID(),
	}
	if s.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.config.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.config.KeyID != "" {
		token.Header["kid"] = s.config.KeyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	s.mu.Lock()
	s.token, s.expiry = signed, expiry
	s.mu.Unlock()

	return signed, nil
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token returns the token, or ErrEmptyToken when it is blank.
func (t StaticToken) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(t))
	if tok == "" {
		return "", ErrEmptyToken
	}
	return tok, nil
}
