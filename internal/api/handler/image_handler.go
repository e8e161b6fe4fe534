package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/ports"
)

type ImageHandler struct {
	images ports.ImageService
}

func NewImageHandler(images ports.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Get streams a stored image.
//
// @Summary      Get an image
// @Tags         images
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        imageId  path  string  true  "Image id"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /images/{imageId} [get]
func (h *ImageHandler) Get(c echo.Context) error {
	body, info, err := h.images.Open(c.Request().Context(), c.Param("imageId"))
	if err != nil {
		return err
	}
	defer body.Close()

	if info.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, info.ContentType, body)
}
