package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// TokenSigner mints and verifies signed identity tokens.
type TokenSigner interface {
	Sign(identity domain.Identity) (domain.IssuedToken, error)
	// Verify returns the embedded identity or a *domain.TokenError.
	Verify(token string) (domain.Identity, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// AuthService verifies credentials and issues tokens.
type AuthService interface {
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
	IssueToken(user *domain.User) (domain.IssuedToken, error)
	Login(ctx context.Context, email, password string) (domain.IssuedToken, *domain.User, error)
	Authenticate(token string) (domain.Identity, error)
}
