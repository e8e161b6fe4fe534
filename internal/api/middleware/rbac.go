package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated identity
// satisfies role. It must run after Authenticate.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if !id.Role.Satisfies(role) {
				return domain.RoleRequired(role)
			}
			return next(c)
		}
	}
}

// AdminOnly is RequireRole(domain.RoleAdmin).
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
