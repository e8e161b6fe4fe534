package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/pkg/logger"
)

// CookieName is the cookie carrying the session token.
const CookieName = "Authentication"

const identityKey = "identity"

// Authenticate verifies the request token and stores the embedded identity
// in the context. Requests without a valid token fail with
// domain.ErrUnauthenticated.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := auth.Authenticate(tokenFrom(c))
			if err != nil {
				return err
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalAuthenticate behaves like Authenticate when the token verifies and
// lets the request through anonymously otherwise.
func OptionalAuthenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := tokenFrom(c); token != "" {
				if id, err := auth.Authenticate(token); err == nil {
					setIdentity(c, id)
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

func setIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)

	req := c.Request()
	l := logger.FromContext(req.Context()).With().Uint("user_id", id.UserID).Logger()
	c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
}

// tokenFrom reads a bearer token from the Authorization header, falling
// back to the session cookie. Other Authorization schemes are ignored.
func tokenFrom(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
