package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// ResponseTime stamps each response with its server-side processing time.
// The header is set just before the first byte is written.
func ResponseTime() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Response-Time", time.Since(start).String())
			})
			return next(c)
		}
	}
}
