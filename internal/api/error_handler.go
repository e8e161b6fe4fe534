package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/pkg/logger"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, c echo.Context) (int, string) {
	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			logger.FromContext(c.Request().Context()).Debug().Err(he.Internal).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var te *domain.TokenError
	if errors.As(err, &te) {
		return http.StatusUnauthorized, te.Error()
	}

	var de *domain.Error
	if errors.As(err, &de) {
		if code, ok := statusOf(de.Kind); ok {
			return code, de.Message
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	logger.FromContext(c.Request().Context()).Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error."
}

func statusOf(kind error) (int, bool) {
	switch {
	case errors.Is(kind, domain.ErrUnauthenticated), errors.Is(kind, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(kind, domain.ErrInvalidUpdate), errors.Is(kind, domain.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(kind, domain.ErrConflict):
		return http.StatusConflict, true
	}
	return 0, false
}
