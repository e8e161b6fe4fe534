package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// AuthService verifies credentials and mints tokens. The signer carries the
// secret and lifetime loaded at start.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	signer ports.TokenSigner
	events ports.EventPublisher
	logger zerolog.Logger

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	signer ports.TokenSigner,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *AuthService {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Warn().Err(err).Msg("could not prepare dummy password hash")
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		events:    events,
		logger:    logger,
		dummyHash: dummy,
	}
}

// VerifyCredentials returns domain.ErrCredentials for an unknown email and
// for a wrong password alike.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Compare(s.dummyHash, password)
		return nil, domain.ErrCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, domain.ErrCredentials
	}
	return user, nil
}

func (s *AuthService) IssueToken(user *domain.User) (domain.IssuedToken, error) {
	issued, err := s.signer.Sign(domain.IdentityOf(user))
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("issue token: %w", err)
	}
	return issued, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.IssuedToken, *domain.User, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info().Msg("login failed")
		}
		return domain.IssuedToken{}, nil, err
	}

	issued, err := s.IssueToken(user)
	if err != nil {
		return domain.IssuedToken{}, nil, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	publish(ctx, s.events, domain.EventUserLoggedIn, strconv.FormatUint(uint64(user.ID), 10), user.ID, nil)
	return issued, user, nil
}

// Authenticate verifies a raw token and returns the identity snapshot it
// carries.
func (s *AuthService) Authenticate(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return s.signer.Verify(token)
}
