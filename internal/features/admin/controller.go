package admin

import (
	"fmt"
	"time"

	common_api "ainews-console/internal/common/api"
	"ainews-console/internal/export"
	"ainews-console/internal/listing"
	"ainews-console/internal/middleware"
	"ainews-console/internal/screen"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminController drives the resource screens of the calling session.
type AdminController struct {
	service  AdminService
	registry *screen.Registry
	log      *zap.Logger
	now      func() time.Time
}

func NewAdminController(service AdminService, registry *screen.Registry, log *zap.Logger) *AdminController {
	return &AdminController{service: service, registry: registry, log: log.Named("admin"), now: time.Now}
}

func (ctrl *AdminController) screen(c *fiber.Ctx) (*screen.Screen, error) {
	return middleware.CurrentSession(c).Screen(c.Params("name"))
}

// view answers with the screen's current view model.
func (ctrl *AdminController) view(c *fiber.Ctx, sc *screen.Screen) error {
	return c.JSON(sc.View())
}

// ListScreens returns the admin navigation.
// @Summary      List admin screens
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Security     BearerAuth
// @Success      200  {array} ScreenInfo
// @Failure      401  {object} map[string]string
// @Router       /console/admin/screens [get]
func (ctrl *AdminController) ListScreens(c *fiber.Ctx) error {
	names := ctrl.registry.Names()
	out := make([]ScreenInfo, 0, len(names))
	for _, name := range names {
		def, _ := ctrl.registry.Definition(name)
		out = append(out, ScreenInfo{Name: name, Title: def.Title, ReadOnly: def.ReadOnly})
	}
	return c.JSON(out)
}

// Summary returns one count per screen.
// @Summary      Dashboard summary
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Security     BearerAuth
// @Success      200  {array} ScreenCount
// @Failure      401  {object} map[string]string
// @Router       /console/admin/summary [get]
func (ctrl *AdminController) Summary(c *fiber.Ctx) error {
	return c.JSON(ctrl.service.Summary(c.UserContext(), middleware.CurrentSession(c)))
}

// GetScreen loads the screen on first use and returns its view.
// @Summary      Get screen view
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      404  {object} map[string]string
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name} [get]
func (ctrl *AdminController) GetScreen(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	// a failed load still renders: the error is already a dialog
	_ = sc.EnsureLoaded(c.UserContext())
	return ctrl.view(c, sc)
}

// Refresh godoc
// @Summary      Refresh screen
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name}/refresh [post]
func (ctrl *AdminController) Refresh(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	_ = sc.Refresh(c.UserContext())
	return ctrl.view(c, sc)
}

// UpdateQuery applies search, filters, sort and page. Omitted fields keep
// their current value.
// @Summary      Update search, filters, sort or page
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        input body QueryRequest true "Query"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      400  {object} map[string]string
// @Router       /console/admin/screens/{name}/query [put]
func (ctrl *AdminController) UpdateQuery(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	def := sc.Definition()
	for field := range req.Filters {
		if !def.HasFilter(field) {
			return common_api.Fail(c, fmt.Errorf("%w: %s", screen.ErrUnknownFilter, field))
		}
	}
	err = sc.SetQuery(c.UserContext(), func(q listing.Query) listing.Query {
		for field, value := range req.Filters {
			q = q.WithFilter(field, value)
		}
		if req.Search != nil {
			q = q.WithSearch(*req.Search)
		}
		if req.Sort != nil {
			q = q.WithSort(*req.Sort, req.Dir)
		}
		if req.Page != nil {
			q = q.WithPage(*req.Page)
		}
		return q
	})
	if err != nil {
		ctrl.log.Debug("query refresh failed", zap.Error(err))
	}
	return ctrl.view(c, sc)
}

// OpenAdd godoc
// @Summary      Open add modal
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      405  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/add [post]
func (ctrl *AdminController) OpenAdd(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.OpenAdd(); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// OpenEdit godoc
// @Summary      Open edit modal
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        id path string true "Record ID"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      404  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/edit/{id} [post]
func (ctrl *AdminController) OpenEdit(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.OpenEdit(c.Params("id")); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// OpenView godoc
// @Summary      Open view modal
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        id path string true "Record ID"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      404  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/view/{id} [post]
func (ctrl *AdminController) OpenView(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.OpenView(c.Params("id")); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// EditFromView godoc
// @Summary      Switch view modal to edit
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/edit [post]
func (ctrl *AdminController) EditFromView(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.EditFromView(); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// SetTab godoc
// @Summary      Select modal tab
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        input body TabRequest true "Tab"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/tab [put]
func (ctrl *AdminController) SetTab(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	var req TabRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := sc.SetTab(req.Tab); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// SetFields merges dot-path values into the open draft.
// @Summary      Edit form fields
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        input body map[string]interface{} true "Field values by path"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/fields [patch]
func (ctrl *AdminController) SetFields(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	var values map[string]any
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := sc.SetFields(values); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// CloseModal godoc
// @Summary      Close modal
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Router       /console/admin/screens/{name}/modal [delete]
func (ctrl *AdminController) CloseModal(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	sc.Cancel()
	return ctrl.view(c, sc)
}

// Submit godoc
// @Summary      Submit form
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      422  {object} map[string]string
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name}/modal/submit [post]
func (ctrl *AdminController) Submit(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.Submit(c.UserContext()); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// PrepareDelete returns the confirmation dialog for the record.
// @Summary      Ask to delete a record
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        id path string true "Record ID"
// @Security     BearerAuth
// @Success      200  {object} dialog.Dialog
// @Failure      404  {object} map[string]string
// @Router       /console/admin/screens/{name}/delete/{id} [post]
func (ctrl *AdminController) PrepareDelete(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	d, err := sc.PrepareDelete(c.Params("id"))
	if err != nil {
		return common_api.Fail(c, err)
	}
	return c.JSON(d)
}

// ConfirmDelete godoc
// @Summary      Confirm pending delete
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      409  {object} map[string]string
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name}/delete/confirm [post]
func (ctrl *AdminController) ConfirmDelete(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.ConfirmDelete(c.UserContext()); err != nil {
		return common_api.Fail(c, err)
	}
	return ctrl.view(c, sc)
}

// CancelDelete godoc
// @Summary      Cancel pending delete
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Router       /console/admin/screens/{name}/delete [delete]
func (ctrl *AdminController) CancelDelete(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	sc.CancelDelete()
	return ctrl.view(c, sc)
}

// RunAction performs a record action; download actions stream the file.
// @Summary      Run a record action
// @Tags         admin
// @Produce      json
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Param        action path string true "Action name"
// @Param        id path string true "Record ID"
// @Security     BearerAuth
// @Success      200  {object} screen.View
// @Failure      404  {object} map[string]string
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name}/actions/{action}/{id} [post]
func (ctrl *AdminController) RunAction(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	input := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}
	blob, err := sc.RunAction(c.UserContext(), c.Params("action"), c.Params("id"), input)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if blob != nil {
		return sendBlob(c, blob.ContentType, blob.Filename, blob.Data)
	}
	return ctrl.view(c, sc)
}

// Export downloads the screen's filtered rows as XLSX.
// @Summary      Export screen to XLSX
// @Tags         admin
// @Param        X-Console-Session header string false "Console session ID"
// @Param        name path string true "Screen name"
// @Security     BearerAuth
// @Success      200  {file} file
// @Failure      404  {object} map[string]string
// @Failure      502  {object} map[string]string
// @Router       /console/admin/screens/{name}/export [get]
func (ctrl *AdminController) Export(c *fiber.Ctx) error {
	sc, err := ctrl.screen(c)
	if err != nil {
		return common_api.Fail(c, err)
	}
	if err := sc.EnsureLoaded(c.UserContext()); err != nil {
		return common_api.Fail(c, err)
	}
	blob, err := export.Screen(sc, ctrl.now())
	if err != nil {
		ctrl.log.Error("export failed", zap.String("screen", sc.Definition().Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate export"})
	}
	return sendBlob(c, blob.ContentType, blob.Filename, blob.Data)
}

func sendBlob(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	if filename != "" {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	}
	return c.Send(data)
}
