package system

import (
	"ainews-console/internal/config"
	"ainews-console/internal/session"
	"ainews-console/internal/socket"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	cfg      *config.Config
	sessions *session.Store
	feed     *socket.Feed
}

func NewHealthController(cfg *config.Config, sessions *session.Store, feed *socket.Feed) *HealthController {
	return &HealthController{cfg: cfg, sessions: sessions, feed: feed}
}

// Health reports liveness plus a few counters useful when debugging a shell.
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} map[string]interface{}
// @Router       /health [get]
func (ctrl *HealthController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"environment": ctrl.cfg.Environment,
		"backend":     ctrl.cfg.BackendURL,
		"sessions":    ctrl.sessions.Len(),
		"socket":      ctrl.feed.Connected(),
	})
}
