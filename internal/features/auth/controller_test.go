package auth

import (
	"net/http"
	"testing"

	"ainews-console/internal/features/featuretest"
	"ainews-console/internal/reader"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHarness(t *testing.T) *featuretest.Harness {
	h := featuretest.New(t, false)
	h.Mount(NewAuthApi(NewAuthController()))
	return h
}

func TestLoginStoresToken(t *testing.T) {
	h := newHarness(t)
	h.Fake.Respond(http.MethodPost, reader.LoginPath, http.StatusOK, `{"token":"reader-token","user":{"name":"Ana"}}`)

	resp := h.Do(t, http.MethodPost, "/console/auth/login", `{"email":"ana@example.com","password":"pw"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	res := featuretest.Decode[map[string]any](t, resp)
	assert.Equal(t, false, res["admin"])

	v, ok := h.Store.Get(storage.UserTokenKey)
	require.True(t, ok)
	assert.Equal(t, "reader-token", v)
}

func TestLoginErrors(t *testing.T) {
	h := newHarness(t)
	resp := h.Do(t, http.MethodPost, "/console/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	h.Fake.Fail(http.MethodPost, reader.LoginPath, http.StatusUnauthorized, "Invalid credentials")
	resp = h.Do(t, http.MethodPost, "/console/auth/login", `{"email":"ana@example.com","password":"bad"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", featuretest.Decode[map[string]string](t, resp)["error"])
}

func TestProfileAndLogout(t *testing.T) {
	h := newHarness(t)
	resp := h.Do(t, http.MethodGet, "/console/auth/profile", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	require.NoError(t, h.Store.Set(storage.UserTokenKey, "reader-token"))
	h.Fake.Respond(http.MethodGet, reader.ProfilePath, http.StatusOK, `{"data":{"name":"Ana"}}`)
	resp = h.Do(t, http.MethodGet, "/console/auth/profile", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana", featuretest.Decode[map[string]any](t, resp)["name"])

	resp = h.Do(t, http.MethodPost, "/console/auth/logout", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, ok := h.Store.Get(storage.UserTokenKey)
	assert.False(t, ok)
}
