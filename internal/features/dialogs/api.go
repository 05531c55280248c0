package dialogs

import "github.com/gofiber/fiber/v2"

type DialogsApi struct {
	Controller *DialogsController
}

func NewDialogsApi(controller *DialogsController) *DialogsApi {
	return &DialogsApi{Controller: controller}
}

func (h *DialogsApi) Setup(app *fiber.App) {
	group := app.Group("/console/dialogs")
	group.Get("/", h.Controller.List)
	group.Delete("/", h.Controller.Clear)
	group.Delete("/:id", h.Controller.Dismiss)
}
