package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accountd/user-directory/internal/api/middleware"
	"github.com/accountd/user-directory/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Identify middleware. The
// route guards run before any handler, so a missing identity here means the
// route was wired without its guard; fail closed with 401 rather than panic.
func ctxCaller(c echo.Context) (*domain.User, error) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return caller, nil
}
