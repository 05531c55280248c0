package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestListNormalizesEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "items", body: `{"items":[{"_id":"a"}],"data":[{"_id":"ignored"}]}`, want: []string{"a"}},
		{name: "data", body: `{"data":[{"_id":"b"},{"_id":"c"}]}`, want: []string{"b", "c"}},
		{name: "bare array", body: `[{"id":"d"}]`, want: []string{"d"}},
		{name: "empty", body: `{"items":[]}`, want: []string{}},
		{name: "null items", body: `{"items":null,"data":[{"_id":"e"}]}`, want: []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			records, err := c.List(context.Background(), "/api/admin/tags", nil, "")
			require.NoError(t, err)
			ids := make([]string, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListRejectsObjects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"_id":"x"}}`)
	})
	_, err := c.List(context.Background(), "/x", nil, "")
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestListSendsAuthAndQuery(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		io.WriteString(w, `[]`)
	})

	_, err := c.List(context.Background(), "/api/admin/tags", url.Values{"limit": {"500"}}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "limit=500", gotQuery)
	assert.Equal(t, "/api/admin/tags", gotPath)
}

func TestErrorMessageParsing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "message", status: 400, body: `{"message":"Slug already exists"}`, want: "Slug already exists"},
		{name: "error", status: 409, body: `{"error":"conflict"}`, want: "conflict"},
		{name: "html", status: 502, body: `<html>bad gateway</html>`, want: "request failed with status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.Create(context.Background(), "/api/admin/tags", map[string]any{"name": "x"}, "")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestMutationsUseRestPaths(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	var lastBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		lastBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&lastBody)
		}
		io.WriteString(w, `{"data":{"_id":"p1","name":"Pro"}}`)
	})
	ctx := context.Background()

	rec, err := c.Update(ctx, "/api/admin/plans", "p1", map[string]any{"name": "Pro"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Pro", rec.Get("name").String())
	assert.Equal(t, "Pro", lastBody["name"])

	require.NoError(t, c.Delete(ctx, "/api/admin/plans", "p1", ""))
	_, err = c.Action(ctx, "/api/admin/sources", "s 1", "flag", map[string]any{"reason": "spam"}, "")
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodPut, "/api/admin/plans/p1"},
		{http.MethodDelete, "/api/admin/plans/p1"},
		{http.MethodPost, "/api/admin/sources/s 1/flag"},
	}, calls)

	assert.ErrorIs(t, c.Delete(ctx, "/api/admin/plans", "", ""), ErrMissingID)
}

func TestListPageReadsTotal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"_id":"u1"}],"pagination":{"total":41}}`)
	})
	page, err := c.ListPage(context.Background(), "/api/admin/subscriptions", nil, "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 41, page.Total)
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="user-42.zip"`)
		w.Write([]byte{0x50, 0x4b})
	})
	blob, err := c.Download(context.Background(), "/api/admin/gdpr/export/42", "tok")
	require.NoError(t, err)
	assert.Equal(t, "user-42.zip", blob.Filename)
	assert.Equal(t, "application/zip", blob.ContentType)
	assert.Equal(t, []byte{0x50, 0x4b}, blob.Data)
}

func TestTimeoutBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	_, err = c.List(context.Background(), "/slow", nil, "")
	assert.Error(t, err)
}

func TestRecordJSON(t *testing.T) {
	rec := MustRecord(map[string]any{"_id": "t1", "seo": map[string]any{"title": "T"}})
	assert.Equal(t, "T", rec.Get("seo.title").String())

	out, err := json.Marshal(struct {
		Row Record `json:"row"`
	}{Row: rec})
	require.NoError(t, err)
	assert.JSONEq(t, `{"row":{"_id":"t1","seo":{"title":"T"}}}`, string(out))

	var back struct {
		Row Record `json:"row"`
	}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "t1", back.Row.ID())
}
