// Package backendtest runs an in-memory stand-in for the content backend on
// an httptest server, recording every request it receives.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"ainews-console/internal/backend"

	"github.com/stretchr/testify/require"
)

// Call is one request the fake received.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Auth   string
}

type canned struct {
	status      int
	body        []byte
	contentType string
	header      http.Header
}

// Fake serves collections as REST resources: GET/POST on the collection,
// GET/PUT/DELETE on collection/:id and POST on collection/:id/:action.
type Fake struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
	calls       []Call
	canned      map[string]canned
	nextID      int
	server      *httptest.Server
}

func New(t testing.TB) *Fake {
	t.Helper()
	f := &Fake{
		collections: make(map[string][]map[string]any),
		canned:      make(map[string]canned),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *Fake) URL() string { return f.server.URL }

// Client returns a backend client pointed at the fake.
func (f *Fake) Client(t testing.TB) *backend.Client {
	t.Helper()
	c, err := backend.New(backend.Config{BaseURL: f.server.URL})
	require.NoError(t, err)
	return c
}

// Seed adds raw JSON documents to a collection, creating it if needed.
func (f *Fake) Seed(collection string, docs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.collections[collection]
	if list == nil {
		list = []map[string]any{}
	}
	for _, d := range docs {
		var m map[string]any
		if err := json.Unmarshal([]byte(d), &m); err != nil {
			panic(fmt.Sprintf("backendtest: bad seed document %s: %v", d, err))
		}
		list = append(list, m)
	}
	f.collections[collection] = list
}

// Respond makes method+path answer with a fixed status and JSON body,
// ahead of any collection behaviour.
func (f *Fake) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canned[method+" "+path] = canned{status: status, body: []byte(body), contentType: "application/json"}
}

// Fail is Respond with a {"message": ...} error body.
func (f *Fake) Fail(method, path string, status int, message string) {
	body, _ := json.Marshal(map[string]string{"message": message})
	f.Respond(method, path, status, string(body))
}

// Blob makes GET path answer with a download.
func (f *Fake) Blob(path, contentType, filename string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := http.Header{}
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	f.canned[http.MethodGet+" "+path] = canned{status: http.StatusOK, body: data, contentType: contentType, header: h}
}

// Reset removes a canned response.
func (f *Fake) Reset(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.canned, method+" "+path)
}

// Calls returns the requests matching method and path.
func (f *Fake) Calls(method, path string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Count(method, path string) int {
	return len(f.Calls(method, path))
}

// Total is the number of requests of any kind.
func (f *Fake) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Docs returns a copy of a collection.
func (f *Fake) Docs(collection string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.collections[collection]...)
}

func (f *Fake) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
		Auth:   r.Header.Get("Authorization"),
	})

	if c, ok := f.canned[r.Method+" "+r.URL.Path]; ok {
		for k, vs := range c.header {
			w.Header()[k] = vs
		}
		w.Header().Set("Content-Type", c.contentType)
		w.WriteHeader(c.status)
		w.Write(c.body)
		return
	}

	collection, rest := f.route(r.URL.Path)
	if collection == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "route not found"})
		return
	}

	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		f.list(w, collection, r.URL.Query())
	case len(rest) == 0 && r.Method == http.MethodPost:
		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid JSON"})
			return
		}
		f.nextID++
		doc["_id"] = fmt.Sprintf("gen-%d", f.nextID)
		f.collections[collection] = append(f.collections[collection], doc)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": doc})
	case len(rest) == 1:
		f.item(w, r.Method, collection, rest[0], body)
	case len(rest) == 2 && r.Method == http.MethodPost:
		i := f.index(collection, rest[0])
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": f.collections[collection][i]})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

func (f *Fake) list(w http.ResponseWriter, collection string, q url.Values) {
	docs := f.collections[collection]
	if docs == nil {
		docs = []map[string]any{}
	}
	total := len(docs)
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && q.Has("page") {
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		docs = docs[start:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": docs, "total": total})
}

func (f *Fake) item(w http.ResponseWriter, method, collection, id string, body []byte) {
	i := f.index(collection, id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
		return
	}
	switch method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": f.collections[collection][i]})
	case http.MethodPut:
		var doc map[string]any
		if err := json.Unmarshal(body, &doc); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid JSON"})
			return
		}
		doc["_id"] = id
		f.collections[collection][i] = doc
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": doc})
	case http.MethodDelete:
		docs := f.collections[collection]
		f.collections[collection] = append(docs[:i:i], docs[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

// route finds the longest collection that prefixes path.
func (f *Fake) route(path string) (string, []string) {
	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for _, name := range names {
		if path == name {
			return name, nil
		}
		if strings.HasPrefix(path, name+"/") {
			var rest []string
			for _, seg := range strings.Split(strings.TrimPrefix(path, name+"/"), "/") {
				if s, err := url.PathUnescape(seg); err == nil {
					rest = append(rest, s)
				}
			}
			return name, rest
		}
	}
	return "", nil
}

func (f *Fake) index(collection, id string) int {
	for i, d := range f.collections[collection] {
		if fmt.Sprint(d["_id"]) == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
