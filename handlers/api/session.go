package api

import (
	"time"

	"dbconsole/auth"
	"dbconsole/middleware"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the auth snapshot and issues API tokens
type SessionHandler struct {
	issuer *auth.TokenIssuer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(issuer *auth.TokenIssuer) *SessionHandler {
	return &SessionHandler{issuer: issuer}
}

// GetSession returns the caller's snapshot. Anonymous callers get an
// unauthenticated snapshot rather than an error.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentState(c))
}

// IssueToken signs a bearer token for the logged-in user
func (h *SessionHandler) IssueToken(c *fiber.Ctx) error {
	state := middleware.CurrentState(c)
	if !state.IsAuthenticated {
		return utils.UnauthorizedError("authentication required", nil)
	}

	token, expires, err := h.issuer.Issue(state.User)
	if err != nil {
		return utils.InternalServerError("Failed to create authentication token", err)
	}

	return c.JSON(fiber.Map{
		"token":     token,
		"tokenType": "Bearer",
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}
