package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ImagePathPrefix is prepended to stored image ids to form the public
// reference saved on users and products.
const ImagePathPrefix = "/images/"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ImageService struct {
	store  ports.ImageStore
	logger zerolog.Logger
}

// NewImageService returns an ImageService. A nil store disables uploads.
func NewImageService(store ports.ImageStore, logger zerolog.Logger) *ImageService {
	return &ImageService{store: store, logger: logger}
}

func (s *ImageService) Upload(ctx context.Context, upload ports.ImageUpload) (string, error) {
	if s.store == nil {
		return "", domain.Validation("Image uploads are not enabled.")
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	if !allowedImageTypes[contentType] {
		return "", domain.Validation("image must be a JPEG, PNG, GIF or WebP file.")
	}

	id, err := s.store.Save(ctx, upload.Filename, contentType, upload.Body)
	if err != nil {
		return "", err
	}
	s.logger.Debug().Str("image_id", id).Str("content_type", contentType).Msg("image stored")
	return ImagePathPrefix + id, nil
}

func (s *ImageService) Open(ctx context.Context, id string) (io.ReadCloser, ports.ImageInfo, error) {
	if s.store == nil || id == "" {
		return nil, ports.ImageInfo{}, domain.ErrImageNotFound
	}
	return s.store.Open(ctx, id)
}
