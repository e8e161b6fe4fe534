package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// UserRepository persists identities.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Create returns domain.ErrUserExists when email or username collide.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update returns domain.ErrUserNotFound when id does not exist.
	Update(ctx context.Context, id uint, changes domain.UserChanges) (*domain.User, error)
}

// RegisterInput is a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Username string
	Address  string
	Phone    string
	Gender   string
	Role     string
}

// UpdateProfileInput is a self-service profile update. Nil fields are left
// unchanged; Password is plaintext and gets hashed by the service.
type UpdateProfileInput struct {
	Password *string
	Name     *string
	Username *string
	Address  *string
	Phone    *string
	Gender   *string
	Image    *string
	Role     *string
}

// UserService manages identities.
type UserService interface {
	// Register creates an identity. caller is nil for anonymous requests.
	Register(ctx context.Context, input RegisterInput, caller *domain.Identity) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	UpdateProfile(ctx context.Context, caller domain.Identity, input UpdateProfileInput) (*domain.User, error)
	ChangeRole(ctx context.Context, actorID, id uint, fields map[string]any) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}
