package public

import (
	"errors"

	common_api "ainews-console/internal/common/api"
	"ainews-console/internal/fab"
	"ainews-console/internal/features/theme"
	"ainews-console/internal/middleware"
	"ainews-console/internal/reader"
	"ainews-console/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicController serves the reader pages and the floating action button.
type PublicController struct {
	theme theme.ThemeService
	log   *zap.Logger
}

func NewPublicController(themeService theme.ThemeService, log *zap.Logger) *PublicController {
	return &PublicController{theme: themeService, log: log.Named("public")}
}

type CommentRequest struct {
	Content string `json:"content"`
}

// FabResponse is the widget state plus the action a leaf item triggered.
// Handled is false when the shell has to perform the action itself.
type FabResponse struct {
	State   fab.State `json:"state"`
	Action  string    `json:"action,omitempty"`
	Handled bool      `json:"handled,omitempty"`
	Theme   string    `json:"theme,omitempty"`
}

// articleState answers with the page, waiting for in-flight interactions
// when the caller asks with ?wait=true.
func articleState(c *fiber.Ctx, s *session.Session, status int) error {
	if c.QueryBool("wait") {
		s.Article.Settle()
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(s.Article.State())
}

// LoadArticle godoc
// @Summary      Load article by slug
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        slug path string true "Article slug"
// @Success      200  {object} reader.ArticleState
// @Router       /console/articles/{slug} [get]
func (ctrl *PublicController) LoadArticle(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	return c.JSON(s.Article.Load(c.UserContext(), c.Params("slug")))
}

// GetArticle godoc
// @Summary      Get current article state
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        wait query bool false "Wait for pending interactions"
// @Success      200  {object} reader.ArticleState
// @Router       /console/article [get]
func (ctrl *PublicController) GetArticle(c *fiber.Ctx) error {
	return articleState(c, middleware.CurrentSession(c), fiber.StatusOK)
}

// ToggleLike godoc
// @Summary      Toggle like
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        wait query bool false "Wait for the backend"
// @Success      200  {object} reader.ArticleState
// @Failure      401  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/article/like [post]
func (ctrl *PublicController) ToggleLike(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	if err := s.Article.ToggleLike(c.UserContext()); err != nil {
		return common_api.Fail(c, err)
	}
	return articleState(c, s, fiber.StatusAccepted)
}

// ToggleBookmark godoc
// @Summary      Toggle bookmark
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        wait query bool false "Wait for the backend"
// @Success      200  {object} reader.ArticleState
// @Failure      401  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/article/bookmark [post]
func (ctrl *PublicController) ToggleBookmark(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	if err := s.Article.ToggleBookmark(c.UserContext()); err != nil {
		return common_api.Fail(c, err)
	}
	return articleState(c, s, fiber.StatusAccepted)
}

// AddComment godoc
// @Summary      Add comment
// @Tags         reader
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        input body CommentRequest true "Comment"
// @Success      200  {object} reader.ArticleState
// @Failure      400  {object} map[string]string
// @Failure      401  {object} map[string]string
// @Router       /console/article/comments [post]
func (ctrl *PublicController) AddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	s := middleware.CurrentSession(c)
	if _, err := s.Article.AddComment(c.UserContext(), req.Content); err != nil {
		return common_api.Fail(c, err)
	}
	return articleState(c, s, fiber.StatusAccepted)
}

// LoadPricing godoc
// @Summary      Load pricing plans
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} reader.PricingState
// @Router       /console/pricing [get]
func (ctrl *PublicController) LoadPricing(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentSession(c).Pricing.Load(c.UserContext()))
}

// GetFab godoc
// @Summary      Get floating menu state
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} FabResponse
// @Router       /console/fab [get]
func (ctrl *PublicController) GetFab(c *fiber.Ctx) error {
	return c.JSON(FabResponse{State: middleware.CurrentSession(c).FAB.State()})
}

// ToggleFab godoc
// @Summary      Open or close floating menu
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} FabResponse
// @Router       /console/fab/toggle [post]
func (ctrl *PublicController) ToggleFab(c *fiber.Ctx) error {
	return c.JSON(FabResponse{State: middleware.CurrentSession(c).FAB.Toggle()})
}

// FabBack godoc
// @Summary      Floating menu back
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} FabResponse
// @Router       /console/fab/back [post]
func (ctrl *PublicController) FabBack(c *fiber.Ctx) error {
	return c.JSON(FabResponse{State: middleware.CurrentSession(c).FAB.Back()})
}

// FabOutside godoc
// @Summary      Close floating menu from outside click
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Success      200  {object} FabResponse
// @Router       /console/fab/outside [post]
func (ctrl *PublicController) FabOutside(c *fiber.Ctx) error {
	return c.JSON(FabResponse{State: middleware.CurrentSession(c).FAB.OutsideClick()})
}

// SelectFab activates a menu item. Leaf actions that map onto console state
// run here; the rest go back to the shell.
// @Summary      Select floating menu item
// @Tags         reader
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        id path string true "Item ID"
// @Success      200  {object} FabResponse
// @Failure      404  {object} map[string]string
// @Router       /console/fab/select/{id} [post]
func (ctrl *PublicController) SelectFab(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	action, state, err := s.FAB.Select(c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	res := FabResponse{State: state, Action: action}

	switch action {
	case "like":
		err = s.Article.ToggleLike(c.UserContext())
		res.Handled = true
	case "bookmark":
		err = s.Article.ToggleBookmark(c.UserContext())
		res.Handled = true
	case "toggle-theme":
		res.Theme, err = ctrl.theme.Toggle()
		res.Handled = true
	case "sign-out":
		err = s.Account.Logout()
		res.Handled = true
	}
	if err != nil {
		ctrl.log.Debug("fab action failed", zap.String("action", action), zap.Error(err))
		// the sign-in prompt is already queued as a dialog
		if errors.Is(err, reader.ErrSignInRequired) {
			return c.JSON(res)
		}
		return common_api.Fail(c, err)
	}
	return c.JSON(res)
}
