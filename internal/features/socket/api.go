package socket

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type SocketApi struct {
	Controller *SocketController
}

func NewSocketApi(controller *SocketController) *SocketApi {
	return &SocketApi{Controller: controller}
}

func (h *SocketApi) Setup(app *fiber.App) {
	group := app.Group("/console/notifications")
	group.Get("/", h.Controller.List)
	group.Delete("/", h.Controller.Clear)

	app.Get("/console/ws", h.Controller.Upgrade, websocket.New(h.Controller.Relay))
}
