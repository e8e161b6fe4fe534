// Package jwt mints and verifies HS256 identity tokens.
package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type claims struct {
	domain.Identity
	// ExpiresAtNano is the exact expiry. The registered exp claim only has
	// second precision and is rounded up to cover it.
	ExpiresAtNano int64 `json:"expNano"`
	jwt.RegisteredClaims
}

// Signer holds the signing secret and token lifetime, both fixed at
// construction.
type Signer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// Option customises a Signer.
type Option func(*Signer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner returns a Signer. Both secret and lifetime are required.
func NewSigner(secret string, lifetime time.Duration, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwt: signing secret is required")
	}
	if lifetime <= 0 {
		return nil, errors.New("jwt: token lifetime must be positive")
	}
	s := &Signer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// Sign mints a token for identity, valid from now until now plus the
// configured lifetime.
func (s *Signer) Sign(identity domain.Identity) (domain.IssuedToken, error) {
	issued := s.now()
	expires := issued.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Identity:      identity,
		ExpiresAtNano: expires.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(expires)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return domain.IssuedToken{}, err
	}
	return domain.IssuedToken{Token: signed, ExpiresAt: expires}, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (s *Signer) Verify(raw string) (domain.Identity, error) {
	var c claims
	_, err := s.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, &domain.TokenError{Reason: classify(err)}
	}
	if c.ExpiresAtNano == 0 {
		return domain.Identity{}, &domain.TokenError{Reason: domain.TokenMalformed}
	}
	if !s.now().Before(time.Unix(0, c.ExpiresAtNano)) {
		return domain.Identity{}, &domain.TokenError{Reason: domain.TokenExpired}
	}
	return c.Identity, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

func classify(err error) domain.TokenFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.TokenBadSignature
	default:
		return domain.TokenMalformed
	}
}
