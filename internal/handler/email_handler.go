package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"maildash/internal/provider"
	"maildash/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type EmailHandler struct {
	emailService service.EmailService
	identity     IdentityResolver
	logger       echo.Logger
}

func NewEmailHandler(emailService service.EmailService, identity IdentityResolver, logger echo.Logger) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		identity:     identity,
		logger:       logger,
	}
}

// GetEmails returns the caller's inbox listing, served through the
// read-through cache. Cache behavior is reported via X-Cache and ETag.
func (h *EmailHandler) GetEmails(c echo.Context) error {
	user, err := h.identity.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	limit := int64(defaultLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be a positive integer",
			})
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	res, err := h.emailService.GetSummaries(c.Request().Context(), user, limit)
	if err != nil {
		return h.writeProviderError(c, err)
	}

	etag := fmt.Sprintf("%q", res.ETag)
	h.setCacheHeaders(c, string(res.Status), etag, int((res.TTL - res.Age).Seconds()))

	// Client-side revalidation: an unchanged fresh entry short-circuits.
	if match := c.Request().Header.Get("If-None-Match"); match != "" && match == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"emails": res.Emails,
	})
}

// GetEmailBody fetches one full message body, cached independently from
// summary lists.
func (h *EmailHandler) GetEmailBody(c echo.Context) error {
	user, err := h.identity.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req struct {
		MessageID string `json:"messageId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.MessageID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "messageId is required",
		})
	}

	res, err := h.emailService.GetBody(c.Request().Context(), user, req.MessageID)
	if err != nil {
		return h.writeProviderError(c, err)
	}

	h.setCacheHeaders(c, string(res.Status), fmt.Sprintf("%q", res.ETag), int((res.TTL-res.Age).Seconds()))

	return c.JSON(http.StatusOK, map[string]string{
		"content": res.Body.Content,
	})
}

func (h *EmailHandler) setCacheHeaders(c echo.Context, status, etag string, maxAge int) {
	if maxAge < 0 {
		maxAge = 0
	}
	header := c.Response().Header()
	header.Set("X-Cache", status)
	header.Set("ETag", etag)
	header.Set("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAge))
}

// writeProviderError maps a classified provider failure to the response
// contract. Unauthenticated and Unauthorized stay distinguishable: the end
// user recovers by re-authenticating in one case and re-consenting in the
// other.
func (h *EmailHandler) writeProviderError(c echo.Context, err error) error {
	kind := provider.Classify(err)
	h.logger.Error("provider request failed:", kind, err)

	switch kind {
	case provider.KindUnauthenticated:
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Your session with the mail provider has expired. Please sign in again.",
			"code":  "AUTH_EXPIRED",
		})
	case provider.KindUnauthorized:
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "The app is missing permission to read your mailbox. Please re-consent.",
			"code":  "INSUFFICIENT_SCOPE",
		})
	case provider.KindNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Message not found.",
			"code":  "NOT_FOUND",
		})
	case provider.KindRateLimited:
		c.Response().Header().Set("Retry-After", "30")
		return c.JSON(http.StatusTooManyRequests, map[string]string{
			"error": "The mail provider is rate limiting requests. Try again shortly.",
			"code":  "RATE_LIMITED",
		})
	default:
		// ProviderUnavailable and Unknown both surface as a generic
		// transient failure; neither should ever crash the caller.
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Could not reach the mail provider. Try again shortly.",
		})
	}
}
