package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/accountd/user-directory/internal/core/domain"
	"github.com/accountd/user-directory/internal/core/ports"
)

// IdentityKey is the context key under which the resolved caller is stored.
const IdentityKey = "identity"

// Identify resolves the optional bearer credential into a caller identity and
// injects it into context. A missing, malformed, expired, or dangling token
// leaves the request anonymous rather than failing it; route guards decide
// whether anonymous access is acceptable.
func Identify(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			user, err := auth.Identify(c.Request().Context(), parts[1])
			if err != nil {
				return next(c)
			}

			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// CallerFrom extracts the identity injected by Identify. The second return
// value is false for anonymous requests.
func CallerFrom(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(IdentityKey).(*domain.User)
	return user, ok && user != nil
}
