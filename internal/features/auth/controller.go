package auth

import (
	common_api "ainews-console/internal/common/api"
	"ainews-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login signs the reader in and stores the returned token
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} map[string]interface{}
// @Failure      400  {object} map[string]string
// @Failure      401  {object} map[string]string
// @Router       /console/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	res, err := middleware.CurrentSession(c).Account.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(res)
}

// Logout drops both stored tokens
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} map[string]string
// @Router       /console/auth/logout [post]
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	if err := middleware.CurrentSession(c).Account.Logout(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear tokens",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Signed out",
	})
}

// Profile returns the signed-in reader
// @Summary      Get reader profile
// @Tags         auth
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} map[string]interface{}
// @Failure      401  {object} map[string]string
// @Router       /console/auth/profile [get]
func (ctrl *AuthController) Profile(c *fiber.Ctx) error {
	rec, err := middleware.CurrentSession(c).Account.Profile(c.UserContext())
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(rec)
}
