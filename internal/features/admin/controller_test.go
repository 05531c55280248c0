package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/export"
	"ainews-console/internal/features/sources"
	"ainews-console/internal/features/tags"
	"ainews-console/internal/middleware"
	"ainews-console/internal/screen"
	"ainews-console/internal/session"
	"ainews-console/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	app   *fiber.App
	fake  *backendtest.Fake
	store *storage.MemoryStore
	id    string
}

type viewResponse struct {
	Rows  []map[string]any `json:"rows"`
	Total int              `json:"total"`
	Empty *struct {
		Message string `json:"message"`
	} `json:"empty"`
	Modal struct {
		Kind string `json:"kind"`
	} `json:"modal"`
	PendingDelete string `json:"pendingDelete"`
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	registry, err := screen.NewRegistry([]screen.Definition{tags.NewDefinition(), sources.NewDefinition()})
	require.NoError(t, err)

	h := &harness{fake: backendtest.New(t), store: storage.NewMemoryStore()}
	require.NoError(t, h.store.Set(storage.AdminTokenKey, "admin-token"))
	h.fake.Seed(tags.Collection,
		`{"_id":"t1","name":"LLM","slug":"llm","type":"topic","isActive":true}`,
		`{"_id":"t2","name":"OpenAI","slug":"openai","type":"company","isActive":true}`,
	)
	h.fake.Seed(sources.Collection, `{"_id":"s1","name":"Blog","type":"rss","status":"active"}`)

	sessions := session.NewStore(session.Deps{
		Registry: registry,
		Client:   h.fake.Client(t),
		Store:    h.store,
	}, time.Hour)

	h.app = fiber.New()
	h.app.Use("/console", middleware.SessionMiddleware(sessions))
	log := zap.NewNop()
	NewAdminApi(NewAdminController(NewAdminService(log), registry, log), h.store).Setup(h.app)
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.id != "" {
		req.Header.Set(session.Header, h.id)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	h.id = resp.Header.Get(session.Header)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRequiresAdminToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Remove(storage.AdminTokenKey))

	resp := h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, h.fake.Total())
}

func TestListScreens(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/console/admin/screens", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	infos := decode[[]ScreenInfo](t, resp)
	require.Len(t, infos, 2)
	assert.Equal(t, "sources", infos[0].Name)
	assert.Equal(t, "Tags", infos[1].Title)
}

func TestGetScreenLoadsOnce(t *testing.T) {
	h := newHarness(t)

	resp := h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := decode[viewResponse](t, resp)
	assert.Equal(t, 2, v.Total)
	assert.Len(t, v.Rows, 2)
	require.NotEmpty(t, h.id)

	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	calls := h.fake.Calls(http.MethodGet, tags.Collection)
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer admin-token", calls[0].Auth)
	assert.Equal(t, "500", calls[0].Query.Get("limit"))

	resp = h.do(t, http.MethodGet, "/console/admin/screens/nope", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestQueryEmptyState(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")

	resp := h.do(t, http.MethodPut, "/console/admin/screens/tags/query", `{"search":"xyz"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := decode[viewResponse](t, resp)
	assert.Zero(t, v.Total)
	require.NotNil(t, v.Empty)
	assert.Equal(t, "No tags found", v.Empty.Message)

	resp = h.do(t, http.MethodPut, "/console/admin/screens/tags/query", `{"search":"","filters":{"type":"company"}}`)
	v = decode[viewResponse](t, resp)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "OpenAI", v.Rows[0]["name"])

	resp = h.do(t, http.MethodPut, "/console/admin/screens/tags/query", `{"filters":{"color":"red"}}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddSubmitRefreshesOnce(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")

	resp := h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/add", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "add", decode[viewResponse](t, resp).Modal.Kind)

	resp = h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/submit", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, h.fake.Count(http.MethodPost, tags.Collection))

	resp = h.do(t, http.MethodPatch, "/console/admin/screens/tags/modal/fields", `{"name":"AI Agents","seo.metaTitle":"Agents"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/submit", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	v := decode[viewResponse](t, resp)
	assert.Equal(t, "none", v.Modal.Kind)
	assert.Equal(t, 3, v.Total)

	posts := h.fake.Calls(http.MethodPost, tags.Collection)
	require.Len(t, posts, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(posts[0].Body, &body))
	assert.Equal(t, "ai-agents", body["slug"])
	seo, ok := body["seo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Agents", seo["metaTitle"])
	assert.Equal(t, 2, h.fake.Count(http.MethodGet, tags.Collection))
}

func TestTwoStepDelete(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")

	resp := h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/confirm", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/t1", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	d := decode[map[string]any](t, resp)
	assert.Equal(t, "confirm", d["kind"])

	resp = h.do(t, http.MethodDelete, "/console/admin/screens/tags/delete", "")
	assert.Empty(t, decode[viewResponse](t, resp).PendingDelete)
	assert.Zero(t, h.fake.Count(http.MethodDelete, tags.Collection+"/t1"))

	h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/t1", "")
	resp = h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/confirm", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[viewResponse](t, resp).Total)
	assert.Equal(t, 1, h.fake.Count(http.MethodDelete, tags.Collection+"/t1"))
}

func TestPendingDeleteSurvivesOtherRequests(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/t1", "")

	for range 5 {
		h.do(t, http.MethodGet, "/console/admin/screens/sources", "")
		h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/view/t2", "")
		h.do(t, http.MethodDelete, "/console/admin/screens/tags/modal", "")
	}

	resp := h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	assert.Equal(t, "t1", decode[viewResponse](t, resp).PendingDelete)

	resp = h.do(t, http.MethodPost, "/console/admin/screens/tags/delete/confirm", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, h.fake.Count(http.MethodDelete, tags.Collection+"/t1"))
	assert.Zero(t, h.fake.Count(http.MethodDelete, tags.Collection+"/t2"))
}

func TestRunAction(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/sources", "")

	resp := h.do(t, http.MethodPost, "/console/admin/screens/sources/actions/flag/s1", `{"reason":"spam"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	calls := h.fake.Calls(http.MethodPost, sources.Collection+"/s1/flag")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"reason":"spam"}`, string(calls[0].Body))

	resp = h.do(t, http.MethodPost, "/console/admin/screens/sources/actions/explode/s1", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBackendFailureKeepsModal(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	h.fake.Fail(http.MethodPut, tags.Collection+"/t1", http.StatusInternalServerError, "write failed")

	h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/edit/t1", "")
	resp := h.do(t, http.MethodPost, "/console/admin/screens/tags/modal/submit", "")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "write failed", decode[map[string]string](t, resp)["error"])

	resp = h.do(t, http.MethodGet, "/console/admin/screens/tags", "")
	assert.Equal(t, "edit", decode[viewResponse](t, resp).Modal.Kind)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	resp := h.do(t, http.MethodGet, "/console/admin/screens/tags/export", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "tags-")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	h.fake.Fail(http.MethodGet, sources.Collection, http.StatusServiceUnavailable, "sources offline")

	resp := h.do(t, http.MethodGet, "/console/admin/summary", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	counts := decode[[]ScreenCount](t, resp)
	require.Len(t, counts, 2)
	assert.Equal(t, ScreenCount{Name: "sources", Title: "Sources", Error: "sources offline"}, counts[0])
	assert.Equal(t, ScreenCount{Name: "tags", Title: "Tags", Total: 2}, counts[1])
}
