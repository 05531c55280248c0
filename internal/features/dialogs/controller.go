package dialogs

import (
	"ainews-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DialogsController struct{}

func NewDialogsController() *DialogsController {
	return &DialogsController{}
}

// List returns the dialogs the shell still has to show
// @Summary      List active dialogs
// @Tags         dialogs
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {array} dialog.Dialog
// @Router       /console/dialogs [get]
func (ctrl *DialogsController) List(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentSession(c).Dialogs.Active())
}

// Dismiss godoc
// @Summary      Dismiss a dialog
// @Tags         dialogs
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        id path string true "Dialog ID"
// @Success      204
// @Failure      404  {object} map[string]string
// @Router       /console/dialogs/{id} [delete]
func (ctrl *DialogsController) Dismiss(c *fiber.Ctx) error {
	if !middleware.CurrentSession(c).Dialogs.Dismiss(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dialog not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Dismiss all dialogs
// @Tags         dialogs
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      204
// @Router       /console/dialogs [delete]
func (ctrl *DialogsController) Clear(c *fiber.Ctx) error {
	middleware.CurrentSession(c).Dialogs.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
