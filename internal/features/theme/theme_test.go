package theme

import (
	"net/http"
	"testing"

	"ainews-console/internal/features/featuretest"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewThemeService(store)
	assert.Equal(t, Light, svc.Get())

	next, err := svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, next)
	v, _ := store.Get(storage.ThemeKey)
	assert.Equal(t, Dark, v)

	next, err = svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, next)

	assert.ErrorIs(t, svc.Set("sepia"), ErrUnknownTheme)
}

func TestThemeRoutes(t *testing.T) {
	h := featuretest.New(t, false)
	h.Mount(NewThemeApi(NewThemeController(NewThemeService(h.Store))))

	resp := h.Do(t, http.MethodPut, "/console/theme", `{"theme":"dark"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = h.Do(t, http.MethodGet, "/console/theme", "")
	assert.Equal(t, "dark", featuretest.Decode[map[string]string](t, resp)["theme"])

	resp = h.Do(t, http.MethodPut, "/console/theme", `{"theme":"neon"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
