package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type ProductService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	searcher   ports.ProductSearcher
	events     ports.EventPublisher
	logger     zerolog.Logger
}

// NewProductService builds a ProductService. searcher may be nil, in which
// case Search queries the database directly.
func NewProductService(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	searcher ports.ProductSearcher,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		searcher:   searcher,
		events:     events,
		logger:     logger,
	}
}

func (s *ProductService) Create(ctx context.Context, actorID uint, input ports.CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.Validation("name is required.")
	}
	if input.Price <= 0 {
		return nil, domain.Validation("price must be greater than 0.")
	}
	if input.Stock < 0 {
		return nil, domain.Validation("stock must not be negative.")
	}
	categoryIDs, err := s.checkCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Create(ctx, &domain.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	}, categoryIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Uint("actor_id", actorID).Msg("product created")
	publish(ctx, s.events, domain.EventProductCreated, created.ID, actorID, productPayload(created))
	return created, nil
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) (*ports.ListProductsResult, error) {
	filter.Page = domain.NewPage(filter.Page.Number, domain.DefaultPageSize)
	filter.Sort = domain.ParseProductSort(string(filter.Sort))

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ports.ListProductsResult{
		Products:   products,
		Pagination: domain.Paginate(filter.Page, total),
	}, nil
}

// Search runs a full-text query against the search index and falls back to a
// database name match when no index is configured or the index fails.
func (s *ProductService) Search(ctx context.Context, query string, page domain.Page) (*ports.ListProductsResult, error) {
	page = domain.NewPage(page.Number, domain.DefaultPageSize)
	query = strings.TrimSpace(query)

	if s.searcher != nil && query != "" {
		ids, total, err := s.searcher.Search(ctx, query, page)
		if err == nil {
			products, err := s.products.FindByIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("load search hits: %w", err)
			}
			return &ports.ListProductsResult{
				Products:   orderByIDs(products, ids),
				Pagination: domain.Paginate(page, total),
			}, nil
		}
		s.logger.Warn().Err(err).Str("query", query).Msg("search index unavailable, falling back to database")
	}

	return s.List(ctx, domain.ProductFilter{Search: query, Sort: domain.SortNameAsc, Page: page})
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, actorID uint, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domain.Validation("name must not be empty.")
	}
	if input.Price != nil && *input.Price <= 0 {
		return nil, domain.Validation("price must be greater than 0.")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, domain.Validation("stock must not be negative.")
	}

	changes := domain.ProductChanges{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
	}
	if input.CategoryIDs != nil {
		ids, err := s.checkCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		changes.CategoryIDs = ids
	}

	updated, err := s.products.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Uint("actor_id", actorID).Msg("product updated")
	publish(ctx, s.events, domain.EventProductUpdated, updated.ID, actorID, productPayload(updated))
	return updated, nil
}

// Delete soft-deletes a product; it disappears from every read path.
func (s *ProductService) Delete(ctx context.Context, actorID uint, id string) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Uint("actor_id", actorID).Msg("product deleted")
	publish(ctx, s.events, domain.EventProductDeleted, id, actorID, nil)
	return nil
}

// checkCategories de-duplicates ids and verifies every one exists.
func (s *ProductService) checkCategories(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, domain.Validation("categoryIds must contain at least one category.")
	}
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	n, err := s.categories.CountByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("check categories: %w", err)
	}
	if n != int64(len(unique)) {
		return nil, domain.ErrCategoryNotFound
	}
	return unique, nil
}

func orderByIDs(products []domain.Product, ids []string) []domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
