package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := userModel{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Username:     user.Username,
		Address:      user.Address,
		Phone:        user.Phone,
		Gender:       user.Gender,
		Image:        user.Image,
		Role:         string(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return m.toDomain(), nil
}

// Update writes only the set fields. A missing row is detected from the
// update's affected-row count.
func (r *UserRepository) Update(ctx context.Context, id uint, ch domain.UserChanges) (*domain.User, error) {
	updates := userUpdates(ch)
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	var m userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userModel{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			if isUniqueViolation(res.Error) {
				return domain.ErrUserExists
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return tx.First(&m, id).Error
	})
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return m.toDomain(), nil
}

func userUpdates(ch domain.UserChanges) map[string]any {
	updates := make(map[string]any)
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("password_hash", ch.PasswordHash)
	set("name", ch.Name)
	set("username", ch.Username)
	set("address", ch.Address)
	set("phone", ch.Phone)
	set("gender", ch.Gender)
	set("image", ch.Image)
	if ch.Role != nil {
		updates["role"] = string(*ch.Role)
	}
	return updates
}
