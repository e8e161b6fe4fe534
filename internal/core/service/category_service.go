package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	events     ports.EventPublisher
	logger     zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, events ports.EventPublisher, logger zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, events: events, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, actorID uint, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validation("name is required.")
	}
	created, err := s.categories.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Uint("category_id", created.ID).Str("name", created.Name).Msg("category created")
	publish(ctx, s.events, domain.EventCategoryCreated, strconv.FormatUint(uint64(created.ID), 10), actorID, map[string]any{
		"name": created.Name,
	})
	return created, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
