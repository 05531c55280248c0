package middleware

import (
	"ainews-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware rejects tokens whose claims name a non-admin user
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Next()
		}

		if claims.Role == "" && len(claims.Roles) == 0 {
			return c.Next()
		}

		if !claims.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Admin role required",
			})
		}

		return c.Next()
	}
}
