package admin

import (
	"ainews-console/internal/middleware"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	Controller *AdminController
	store      storage.LocalStore
}

func NewAdminApi(controller *AdminController, store storage.LocalStore) *AdminApi {
	return &AdminApi{
		Controller: controller,
		store:      store,
	}
}

// Setup registers the admin screen routes
func (h *AdminApi) Setup(app *fiber.App) {
	admin := app.Group("/console/admin",
		middleware.AuthMiddleware(storage.AdminTokens(h.store), nil),
		middleware.AdminMiddleware(),
	)

	admin.Get("/screens", h.Controller.ListScreens)
	admin.Get("/summary", h.Controller.Summary)

	screens := admin.Group("/screens/:name")
	screens.Get("/", h.Controller.GetScreen)
	screens.Post("/refresh", h.Controller.Refresh)
	screens.Put("/query", h.Controller.UpdateQuery)
	screens.Get("/export", h.Controller.Export)

	// Modal
	screens.Post("/modal/add", h.Controller.OpenAdd)
	screens.Post("/modal/edit/:id", h.Controller.OpenEdit)
	screens.Post("/modal/view/:id", h.Controller.OpenView)
	screens.Post("/modal/edit", h.Controller.EditFromView)
	screens.Put("/modal/tab", h.Controller.SetTab)
	screens.Patch("/modal/fields", h.Controller.SetFields)
	screens.Post("/modal/submit", h.Controller.Submit)
	screens.Delete("/modal", h.Controller.CloseModal)

	// Two-step delete
	screens.Post("/delete/confirm", h.Controller.ConfirmDelete)
	screens.Post("/delete/:id", h.Controller.PrepareDelete)
	screens.Delete("/delete", h.Controller.CancelDelete)

	screens.Post("/actions/:action/:id", h.Controller.RunAction)
}
