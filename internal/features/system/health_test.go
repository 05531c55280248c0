package system

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ainews-console/internal/config"
	"ainews-console/internal/screen"
	"ainews-console/internal/session"
	"ainews-console/internal/socket"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	registry, err := screen.NewRegistry(nil)
	require.NoError(t, err)
	sessions := session.NewStore(session.Deps{Registry: registry, Store: storage.NewMemoryStore()}, time.Hour)
	sessions.Create()

	cfg := &config.Config{Environment: "test", BackendURL: "http://backend"}
	app := fiber.New()
	NewHealthApi(NewHealthController(cfg, sessions, socket.NewFeed("", nil, nil))).Setup(app)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["sessions"])
	assert.Equal(t, false, body["socket"])
}
