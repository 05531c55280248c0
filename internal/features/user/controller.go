package user

import (
	"errors"

	"ainews-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

type TokenRequest struct {
	Token string `json:"token"`
}

// Me describes the stored admin and reader tokens
// @Summary      Describe stored tokens
// @Tags         users
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {array} Identity
// @Router       /console/me [get]
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	return c.JSON(ctrl.service.Me())
}

// SetToken godoc
// @Summary      Store a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        kind path string true "admin or user"
// @Param        input body TokenRequest true "Token"
// @Success      200  {object} Identity
// @Failure      400  {object} map[string]string
// @Router       /console/tokens/{kind} [put]
func (ctrl *UserController) SetToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := ctrl.service.SetToken(c.Params("kind"), req.Token); err != nil {
		return tokenError(c, err)
	}
	id, _ := ctrl.service.Identity(c.Params("kind"))
	return c.JSON(id)
}

// ClearToken godoc
// @Summary      Remove a token
// @Tags         users
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        kind path string true "admin or user"
// @Success      204
// @Failure      400  {object} map[string]string
// @Router       /console/tokens/{kind} [delete]
func (ctrl *UserController) ClearToken(c *fiber.Ctx) error {
	if err := ctrl.service.ClearToken(c.Params("kind")); err != nil {
		return tokenError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func tokenError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUnknownKind):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, utils.ErrEmptyToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token is required"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store token"})
}
