package user

import (
	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller *UserController
}

func NewUserApi(controller *UserController) *UserApi {
	return &UserApi{
		controller: controller,
	}
}

// Setup registers the token and identity routes
func (h *UserApi) Setup(app *fiber.App) {
	app.Get("/console/me", h.controller.Me)

	tokens := app.Group("/console/tokens")
	tokens.Put("/:kind", h.controller.SetToken)
	tokens.Delete("/:kind", h.controller.ClearToken)
}
