package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/subsyncapp/subsync/internal/pkg/usercontext"
)

// RequireSession guards API routes that need an authenticated user. API
// consumers get a JSON 401 rather than a login redirect.
func RequireSession(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}
	return c.Next()
}
