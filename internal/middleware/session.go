package middleware

import (
	"ainews-console/internal/session"

	"github.com/gofiber/fiber/v2"
)

const SessionKey = "console_session"

// SessionMiddleware resolves the X-Console-Session header to a live session,
// starting a new one when the header is missing or stale, and echoes the id
// back on the response.
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, created := store.GetOrCreate(c.Get(session.Header))
		c.Locals(SessionKey, s)
		c.Set(session.Header, s.ID)
		if created {
			c.Set(session.Header+"-New", "true")
		}
		return c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware.
func CurrentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(SessionKey).(*session.Session)
	return s
}
