package socket

import (
	"ainews-console/internal/socket"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SocketController struct {
	feed *socket.Feed
	log  *zap.Logger
}

func NewSocketController(feed *socket.Feed, log *zap.Logger) *SocketController {
	return &SocketController{feed: feed, log: log.Named("socket")}
}

// List returns both feeds, newest first.
// @Summary      List notifications and messages
// @Tags         notifications
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} map[string]interface{}
// @Router       /console/notifications [get]
func (ctrl *SocketController) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected":     ctrl.feed.Connected(),
		"notifications": ctrl.feed.Notifications(),
		"messages":      ctrl.feed.Messages(),
	})
}

// Clear godoc
// @Summary      Clear notifications and messages
// @Tags         notifications
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      204
// @Router       /console/notifications [delete]
func (ctrl *SocketController) Clear(c *fiber.Ctx) error {
	ctrl.feed.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

// Upgrade rejects plain HTTP requests on the relay route.
func (ctrl *SocketController) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Relay forwards every new frame to the shell until either side goes away.
func (ctrl *SocketController) Relay(c *websocket.Conn) {
	frames, cancel := ctrl.feed.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case fr, ok := <-frames:
			if !ok {
				return
			}
			if err := c.WriteJSON(fr); err != nil {
				ctrl.log.Debug("relay write failed", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}
