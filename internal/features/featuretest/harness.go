// Package featuretest wires a console Fiber app against a fake backend for
// controller tests.
package featuretest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	common_api "ainews-console/internal/common/api"
	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/middleware"
	"ainews-console/internal/screen"
	"ainews-console/internal/session"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type Harness struct {
	App      *fiber.App
	Fake     *backendtest.Fake
	Store    *storage.MemoryStore
	Sessions *session.Store
	// SessionID is sent on every request and updated from every response.
	SessionID string
}

// New builds an app with the session middleware; demo turns on the reader
// fallback content.
func New(t *testing.T, demo bool, defs ...screen.Definition) *Harness {
	t.Helper()
	registry, err := screen.NewRegistry(defs)
	require.NoError(t, err)

	h := &Harness{Fake: backendtest.New(t), Store: storage.NewMemoryStore()}
	h.Sessions = session.NewStore(session.Deps{
		Registry: registry,
		Client:   h.Fake.Client(t),
		Store:    h.Store,
		Demo:     demo,
	}, time.Hour)

	h.App = fiber.New()
	h.App.Use("/console", middleware.SessionMiddleware(h.Sessions))
	return h
}

func (h *Harness) Mount(routes ...common_api.Route) {
	for _, r := range routes {
		r.Setup(h.App)
	}
}

// Session returns the session behind SessionID.
func (h *Harness) Session(t *testing.T) *session.Session {
	t.Helper()
	s, err := h.Sessions.Get(h.SessionID)
	require.NoError(t, err)
	return s
}

func (h *Harness) Do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.SessionID != "" {
		req.Header.Set(session.Header, h.SessionID)
	}
	resp, err := h.App.Test(req, -1)
	require.NoError(t, err)
	if id := resp.Header.Get(session.Header); id != "" {
		h.SessionID = id
	}
	return resp
}

func Decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
