package dialogs

import (
	"net/http"
	"testing"

	"ainews-console/internal/dialog"
	"ainews-console/internal/features/featuretest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogRoutes(t *testing.T) {
	h := featuretest.New(t, false)
	h.Mount(NewDialogsApi(NewDialogsController()))

	resp := h.Do(t, http.MethodGet, "/console/dialogs", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, featuretest.Decode[[]dialog.Dialog](t, resp))

	q := h.Session(t).Dialogs
	first := q.Show(dialog.Error("Failed to load tags", "boom"))
	q.Show(dialog.Info("Sign in required", "Please sign in."))

	list := featuretest.Decode[[]dialog.Dialog](t, h.Do(t, http.MethodGet, "/console/dialogs", ""))
	require.Len(t, list, 2)
	assert.Equal(t, "Failed to load tags", list[0].Title)

	resp = h.Do(t, http.MethodDelete, "/console/dialogs/"+first.ID, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = h.Do(t, http.MethodDelete, "/console/dialogs/"+first.ID, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = h.Do(t, http.MethodDelete, "/console/dialogs", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, q.Active())
}
