package middleware

import (
	"strings"

	"dbconsole/auth"
	"dbconsole/models"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

const tokenUserKey = "token_user"

// HasBearer reports whether the request carries an Authorization: Bearer header
func HasBearer(c *fiber.Ctx) bool {
	_, ok := bearerToken(c)
	return ok
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// BearerAuth authenticates requests that carry a bearer token. Requests
// without one pass through untouched and fall back to the cookie session;
// a present but invalid token is rejected.
func BearerAuth(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		token, ok := bearerToken(c)
		if !ok {
			return utils.UnauthorizedError("invalid authorization header", nil)
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			return utils.UnauthorizedError("invalid token", err)
		}

		c.Locals(tokenUserKey, claims.User())
		return c.Next()
	}
}

// CurrentState is the auth snapshot of the request: the bearer token's
// user when one was accepted, otherwise the session holder's state.
func CurrentState(c *fiber.Ctx) models.AuthState {
	if u, ok := c.Locals(tokenUserKey).(*models.User); ok && u != nil {
		return models.AuthState{User: u, IsAuthenticated: true}
	}
	if h, ok := Holder(c); ok {
		return h.State()
	}
	return models.AuthState{}
}

// ViaToken reports whether the request was authenticated by BearerAuth
func ViaToken(c *fiber.Ctx) bool {
	u, ok := c.Locals(tokenUserKey).(*models.User)
	return ok && u != nil
}

// IsAPIRequest is true for /api paths and HTMX requests
func IsAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	if c.Get("HX-Request") != "" {
		return true
	}
	path := c.Path()
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
