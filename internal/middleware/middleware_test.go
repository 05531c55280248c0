package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/features/tags"
	"ainews-console/internal/screen"
	"ainews-console/internal/session"
	"ainews-console/internal/storage"
	"ainews-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func signed(t *testing.T, claims utils.UserClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func guarded(tokens TokenSource, now time.Time) *fiber.App {
	app := fiber.New()
	app.Get("/admin", AuthMiddleware(tokens, func() time.Time { return now }), AdminMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAdminGuard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := jwt.NewNumericDate(now.Add(time.Hour))
	past := jwt.NewNumericDate(now.Add(-time.Hour))

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"opaque token", "not-a-jwt", fiber.StatusOK},
		{"admin", signed(t, utils.UserClaims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}), fiber.StatusOK},
		{"admin in roles", signed(t, utils.UserClaims{Roles: []string{"editor", "Admin"}}), fiber.StatusOK},
		{"reader", signed(t, utils.UserClaims{Role: "user"}), fiber.StatusForbidden},
		{"expired", signed(t, utils.UserClaims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}), fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := guarded(staticToken(tc.token), now).Test(httptest.NewRequest("GET", "/admin", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	registry, err := screen.NewRegistry([]screen.Definition{tags.NewDefinition()})
	require.NoError(t, err)
	store := session.NewStore(session.Deps{
		Registry: registry,
		Client:   backendtest.New(t).Client(t),
		Store:    storage.NewMemoryStore(),
	}, time.Hour)

	app := fiber.New()
	app.Use(SessionMiddleware(store))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(CurrentSession(c).ID)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	id := resp.Header.Get(session.Header)
	require.NotEmpty(t, id)
	assert.Equal(t, "true", resp.Header.Get(session.Header+"-New"))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set(session.Header, id)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, id, resp.Header.Get(session.Header))
	assert.Empty(t, resp.Header.Get(session.Header+"-New"))
	assert.Equal(t, 1, store.Len())
}
