package ports

import (
	"context"
	"io"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	// CountByIDs returns how many of ids exist.
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

// ProductRepository persists products. Soft-deleted rows are invisible to
// every method.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product, categoryIDs []uint) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, id string, changes domain.ProductChanges) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
}

// ProductSearcher runs full-text product queries against a search index.
type ProductSearcher interface {
	Search(ctx context.Context, query string, page domain.Page) ([]string, int64, error)
}

// ImageInfo describes a stored image.
type ImageInfo struct {
	ContentType string
	Size        int64
}

// ImageStore keeps uploaded images and serves them back by id.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, ImageInfo, error)
}

// ImageUpload is an uploaded file attached to a request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateProductInput is an admin product creation request. Image is the
// reference returned by ImageService.Upload.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryIDs []uint
	Image       string
}

// UpdateProductInput is an admin partial product update. A non-nil
// CategoryIDs replaces the category set.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	CategoryIDs []uint
	Image       *string
}

// ListProductsResult is a page of products.
type ListProductsResult struct {
	Products   []domain.Product
	Pagination domain.Pagination
}

// CategoryService manages categories.
type CategoryService interface {
	Create(ctx context.Context, actorID uint, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// ProductService manages the catalog.
type ProductService interface {
	Create(ctx context.Context, actorID uint, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) (*ListProductsResult, error)
	Search(ctx context.Context, query string, page domain.Page) (*ListProductsResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, actorID uint, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, actorID uint, id string) error
}

// ImageService stores uploaded images and resolves references back to
// their content.
type ImageService interface {
	// Upload returns the public reference of the stored image.
	Upload(ctx context.Context, upload ImageUpload) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, ImageInfo, error)
}
