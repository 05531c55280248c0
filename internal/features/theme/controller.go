package theme

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ThemeController struct {
	service ThemeService
}

func NewThemeController(service ThemeService) *ThemeController {
	return &ThemeController{service: service}
}

type ThemeRequest struct {
	Theme string `json:"theme"`
}

// GetTheme godoc
// @Summary      Get theme
// @Tags         theme
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} map[string]string
// @Router       /console/theme [get]
func (ctrl *ThemeController) GetTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": ctrl.service.Get()})
}

// SetTheme godoc
// @Summary      Set theme
// @Tags         theme
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        input body ThemeRequest true "Theme"
// @Success      200  {object} map[string]string
// @Failure      400  {object} map[string]string
// @Router       /console/theme [put]
func (ctrl *ThemeController) SetTheme(c *fiber.Ctx) error {
	var req ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := ctrl.service.Set(req.Theme); err != nil {
		if errors.Is(err, ErrUnknownTheme) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save theme"})
	}
	return c.JSON(fiber.Map{"theme": req.Theme})
}
