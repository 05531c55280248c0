// Package reader holds the public site's page state: the article page with
// its optimistic interactions, the pricing page and the account calls.
package reader

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/url"

	"ainews-console/internal/backend"
)

// Status tags what a page is showing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
	// StatusDemo means the backend failed and bundled sample data is shown.
	StatusDemo Status = "demo"
)

var (
	ErrSignInRequired     = errors.New("reader: sign in required")
	ErrNotLoaded          = errors.New("reader: nothing loaded")
	ErrInteractionPending = errors.New("reader: interaction already in flight")
	ErrEmptyComment       = errors.New("reader: comment is empty")
	ErrMissingCredentials = errors.New("reader: email and password are required")
	ErrNoToken            = errors.New("reader: login response carried no token")
)

const (
	ArticlesPath = "/api/public/articles"
	PlansPath    = "/api/public/plans"
	LoginPath    = "/api/auth/login"
	ProfilePath  = "/api/user/profile"
	InteractPath = "/api/user/articles"
)

// Gateway is the part of the backend client the public pages use.
type Gateway interface {
	Get(ctx context.Context, path string, token string) (backend.Record, error)
	List(ctx context.Context, path string, query url.Values, token string) ([]backend.Record, error)
	Post(ctx context.Context, path string, body any, token string) (backend.Record, error)
}

type TokenSource interface {
	Token() (string, bool)
}

//go:embed demo/article.json
var demoArticleJSON []byte

//go:embed demo/plans.json
var demoPlansJSON []byte

// demoArticle is the bundled sample, carrying the requested slug.
func demoArticle(slug string) backend.Record {
	var doc map[string]any
	if err := json.Unmarshal(demoArticleJSON, &doc); err != nil {
		panic(err)
	}
	if slug != "" {
		doc["slug"] = slug
	}
	return backend.MustRecord(doc)
}

func demoPlans() []backend.Record {
	var raw []json.RawMessage
	if err := json.Unmarshal(demoPlansJSON, &raw); err != nil {
		panic(err)
	}
	out := make([]backend.Record, 0, len(raw))
	for _, r := range raw {
		out = append(out, backend.Record(r))
	}
	return out
}
