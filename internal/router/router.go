package router

import (
	"net/http"

	"maildash/internal/handler"
	"maildash/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	emailHandler *handler.EmailHandler,
) {
	e.Use(middleware.ResponseTime())

	// Public routes
	e.GET("/auth/:provider", authHandler.BeginAuthHandler)
	e.GET("/auth/:provider/callback", authHandler.CallbackHandler)
	e.GET("/auth/demo", authHandler.DemoLoginHandler)
	e.GET("/auth/logout", authHandler.LogoutHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected API routes
	protected := e.Group("/api")
	protected.Use(middleware.AuthMiddleware(authHandler))

	protected.GET("/emails", emailHandler.GetEmails)
	protected.POST("/emails", emailHandler.GetEmailBody)
}
