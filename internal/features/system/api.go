package system

import "github.com/gofiber/fiber/v2"

type HealthApi struct {
	Controller *HealthController
}

func NewHealthApi(controller *HealthController) *HealthApi {
	return &HealthApi{Controller: controller}
}

// Setup registers the health route outside /console so probes do not open
// sessions.
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.Controller.Health)
}
