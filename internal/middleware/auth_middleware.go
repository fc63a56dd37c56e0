package middleware

import (
	"net/http"

	"maildash/internal/handler"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware rejects requests without an authenticated session.
func AuthMiddleware(identity handler.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := identity.GetCurrentUser(c); err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
			}
			return next(c)
		}
	}
}
