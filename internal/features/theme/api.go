package theme

import "github.com/gofiber/fiber/v2"

type ThemeApi struct {
	Controller *ThemeController
}

func NewThemeApi(controller *ThemeController) *ThemeApi {
	return &ThemeApi{Controller: controller}
}

func (h *ThemeApi) Setup(app *fiber.App) {
	app.Get("/console/theme", h.Controller.GetTheme)
	app.Put("/console/theme", h.Controller.SetTheme)
}
