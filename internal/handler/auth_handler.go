package handler

import (
	"fmt"
	"net/http"

	"maildash/internal/config"
	"maildash/internal/model"
	"maildash/internal/service"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

const sessionName = "maildash_session"

// IdentityResolver supplies the caller identity for a request. AuthHandler
// implements it; request handlers and middleware depend on the interface so
// tests can substitute a stub.
type IdentityResolver interface {
	GetCurrentUser(c echo.Context) (*model.User, error)
}

type AuthHandler struct {
	authService service.AuthService
	config      *config.Config
	logger      echo.Logger
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config, logger echo.Logger) *AuthHandler {
	gothic.Store = sessions.NewCookieStore([]byte(cfg.SessionSecret))

	if cfg.GoogleEnabled() {
		goth.UseProviders(
			google.New(
				cfg.GoogleClientID,
				cfg.GoogleClientSecret,
				cfg.BaseURL+"/auth/google/callback",
				"https://www.googleapis.com/auth/gmail.readonly",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			),
		)
	}

	return &AuthHandler{
		authService: authService,
		config:      cfg,
		logger:      logger,
	}
}

// BeginAuthHandler initiates the OAuth flow
func (h *AuthHandler) BeginAuthHandler(c echo.Context) error {
	provider := c.Param("provider")
	if provider != "google" || !h.config.GoogleEnabled() {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid provider",
		})
	}

	// Set provider in the request URL so Goth can recognize it
	req := c.Request()
	q := req.URL.Query()
	q.Set("provider", "google")
	req.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Response(), req)
	return nil
}

// CallbackHandler handles the OAuth callback
func (h *AuthHandler) CallbackHandler(c echo.Context) error {
	req := c.Request()
	q := req.URL.Query()
	q.Set("provider", "google")
	req.URL.RawQuery = q.Encode()

	googleUser, err := gothic.CompleteUserAuth(c.Response(), req)
	if err != nil {
		h.logger.Error("Failed to complete user auth:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Authentication failed",
		})
	}

	user, err := h.authService.GetOrCreateUser(
		c.Request().Context(),
		googleUser.Provider+"_"+googleUser.UserID,
		googleUser.Email,
		googleUser.Name,
		googleUser.AccessToken,
		googleUser.RefreshToken,
		googleUser.ExpiresAt,
	)
	if err != nil {
		h.logger.Error("Failed to get or create user:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to process user",
		})
	}

	if err := h.saveSession(c, user.ID); err != nil {
		h.logger.Error("Failed to save session:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save session",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Signed in",
		"user":    user,
	})
}

// DemoLoginHandler starts a demo session: a mock user with generated data
// and no Google credential. Useful for trying the API without OAuth setup.
func (h *AuthHandler) DemoLoginHandler(c echo.Context) error {
	user, err := h.authService.GetOrCreateDemoUser(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to create demo user:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to start demo session",
		})
	}

	if err := h.saveSession(c, user.ID); err != nil {
		h.logger.Error("Failed to save session:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save session",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Demo session started",
		"user":    user,
	})
}

// LogoutHandler clears the session
func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	session, _ := gothic.Store.Get(c.Request(), sessionName)
	session.Options.MaxAge = -1
	_ = session.Save(c.Request(), c.Response())

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Signed out",
	})
}

// GetCurrentUser returns the current authenticated user
func (h *AuthHandler) GetCurrentUser(c echo.Context) (*model.User, error) {
	session, err := gothic.Store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	userID, ok := session.Values["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("user not authenticated")
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

func (h *AuthHandler) saveSession(c echo.Context, userID string) error {
	session, _ := gothic.Store.Get(c.Request(), sessionName)
	session.Values["user_id"] = userID
	return session.Save(c.Request(), c.Response())
}
