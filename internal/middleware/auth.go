package middleware

import (
	"time"

	"ainews-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// TokenSource is the stored bearer token a route group runs with.
type TokenSource interface {
	Token() (string, bool)
}

// AuthMiddleware requires a stored token and injects its claims into context.
// Opaque tokens pass through without claims; the backend judges those.
func AuthMiddleware(tokens TokenSource, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		token, ok := tokens.Token()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Sign in required",
			})
		}

		claims, err := utils.DecodeToken(token)
		if err != nil {
			return c.Next()
		}
		if claims.Expired(now()) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session expired",
			})
		}

		c.Locals(utils.UserClaimsKey, claims)
		return c.Next()
	}
}
