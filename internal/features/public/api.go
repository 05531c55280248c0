package public

import "github.com/gofiber/fiber/v2"

type PublicApi struct {
	Controller *PublicController
}

func NewPublicApi(controller *PublicController) *PublicApi {
	return &PublicApi{Controller: controller}
}

// Setup registers the reader page and FAB routes
func (h *PublicApi) Setup(app *fiber.App) {
	app.Get("/console/articles/:slug", h.Controller.LoadArticle)

	article := app.Group("/console/article")
	article.Get("/", h.Controller.GetArticle)
	article.Post("/like", h.Controller.ToggleLike)
	article.Post("/bookmark", h.Controller.ToggleBookmark)
	article.Post("/comments", h.Controller.AddComment)

	app.Get("/console/pricing", h.Controller.LoadPricing)

	fab := app.Group("/console/fab")
	fab.Get("/", h.Controller.GetFab)
	fab.Post("/toggle", h.Controller.ToggleFab)
	fab.Post("/select/:id", h.Controller.SelectFab)
	fab.Post("/back", h.Controller.FabBack)
	fab.Post("/outside", h.Controller.FabOutside)
}
