package middleware

import (
	"dbconsole/models"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth stops anonymous requests: pages redirect to /login, API
// calls get 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentState(c).IsAuthenticated {
			return c.Next()
		}
		if IsAPIRequest(c) {
			return utils.UnauthorizedError("authentication required", nil)
		}
		return c.Redirect("/login")
	}
}

// RequireRole lets through only the given roles
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		state := CurrentState(c)
		if !state.IsAuthenticated {
			return utils.UnauthorizedError("authentication required", nil)
		}
		if _, ok := allowed[state.Role()]; !ok {
			return utils.ForbiddenError("forbidden", nil)
		}
		return c.Next()
	}
}
