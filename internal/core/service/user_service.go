package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	events ports.EventPublisher
	logger zerolog.Logger

	newUsername func() string
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, events ports.EventPublisher, logger zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		hasher:      hasher,
		events:      events,
		logger:      logger,
		newUsername: generateUsername,
	}
}

// generateUsername returns "user" followed by nine digits.
func generateUsername() string {
	return fmt.Sprintf("user%09d", rand.IntN(1_000_000_000))
}

// Register creates an identity. Any role other than user requires caller to
// be an admin.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput, caller *domain.Identity) (*domain.User, error) {
	role := domain.RoleUser
	if input.Role != "" {
		r, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, domain.Validation("role must be one of: user, admin.")
		}
		role = r
	}
	if role != domain.RoleUser && (caller == nil || !caller.Role.IsAdmin()) {
		return nil, domain.ErrAdminRequired
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = s.newUsername()
	}

	created, err := s.users.Create(ctx, &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Name:         input.Name,
		Username:     username,
		Address:      input.Address,
		Phone:        input.Phone,
		Gender:       input.Gender,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	publish(ctx, s.events, domain.EventUserRegistered, userKey(created.ID), actorOf(caller, created.ID), map[string]any{
		"email":    created.Email,
		"username": created.Username,
		"role":     string(created.Role),
	})
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies a self-service update to the caller's own identity.
// Only admins may include a role.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Identity, input ports.UpdateProfileInput) (*domain.User, error) {
	changes := domain.UserChanges{
		Name:     input.Name,
		Username: input.Username,
		Address:  input.Address,
		Phone:    input.Phone,
		Gender:   input.Gender,
		Image:    input.Image,
	}

	if input.Role != nil {
		if !caller.Role.IsAdmin() {
			return nil, domain.ErrRoleChangeDenied
		}
		role, err := parseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		changes.Role = &role
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		return nil, domain.Validation("No fields to update.")
	}

	updated, err := s.users.Update(ctx, caller.UserID, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", updated.ID).Msg("profile updated")
	publish(ctx, s.events, domain.EventUserUpdated, userKey(updated.ID), caller.UserID, map[string]any{
		"fields": changedUserFields(changes),
	})
	if changes.Role != nil {
		publish(ctx, s.events, domain.EventUserRoleChanged, userKey(updated.ID), caller.UserID, map[string]any{
			"role": string(updated.Role),
		})
	}
	return updated, nil
}

// ChangeRole is the admin-only whitelisted update of another identity's role.
func (s *UserService) ChangeRole(ctx context.Context, actorID, id uint, fields map[string]any) (*domain.User, error) {
	updated, err := applyWhitelistedUpdate(fields, domain.FieldUserRole, parseRole, func(role domain.Role) (*domain.User, error) {
		return s.users.Update(ctx, id, domain.UserChanges{Role: &role})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("user_id", id).Uint("actor_id", actorID).Str("role", string(updated.Role)).Msg("role changed")
	publish(ctx, s.events, domain.EventUserRoleChanged, userKey(id), actorID, map[string]any{
		"role": string(updated.Role),
	})
	return updated, nil
}

// EnsureAdmin makes sure an administrator with email exists, creating it with
// password or promoting an existing identity.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role.IsAdmin() {
			return nil
		}
		role := domain.RoleAdmin
		if _, err := s.users.Update(ctx, existing.ID, domain.UserChanges{Role: &role}); err != nil {
			return fmt.Errorf("promote bootstrap admin: %w", err)
		}
		s.logger.Info().Uint("user_id", existing.ID).Msg("bootstrap admin promoted")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("look up bootstrap admin: %w", err)
	}

	system := &domain.Identity{Role: domain.RoleAdmin}
	if _, err := s.Register(ctx, ports.RegisterInput{
		Email:    email,
		Password: password,
		Name:     "Administrator",
		Role:     string(domain.RoleAdmin),
	}, system); err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	return nil
}

func userKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func actorOf(caller *domain.Identity, fallback uint) uint {
	if caller != nil && caller.UserID != 0 {
		return caller.UserID
	}
	return fallback
}

func changedUserFields(c domain.UserChanges) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(c.PasswordHash != nil, "password")
	add(c.Name != nil, "name")
	add(c.Username != nil, "username")
	add(c.Address != nil, "address")
	add(c.Phone != nil, "phone")
	add(c.Gender != nil, "gender")
	add(c.Image != nil, "image")
	add(c.Role != nil, "role")
	return fields
}
