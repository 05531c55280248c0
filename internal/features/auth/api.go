package auth

import (
	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	Controller *AuthController
}

func NewAuthApi(controller *AuthController) *AuthApi {
	return &AuthApi{
		Controller: controller,
	}
}

// Setup registers the reader account routes
func (h *AuthApi) Setup(app *fiber.App) {
	auth := app.Group("/console/auth")
	auth.Post("/login", h.Controller.Login)
	auth.Post("/logout", h.Controller.Logout)
	auth.Get("/profile", h.Controller.Profile)
}
