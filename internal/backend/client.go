// Package backend is the console's REST gateway to the AI-news backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ainews-console/internal/config"

	"github.com/tidwall/gjson"
)

// Client is the AI-news backend REST client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Response is a raw backend response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Error returns an *APIError if the response indicates failure.
func (r *Response) Error() error {
	if r.StatusCode < 200 || r.StatusCode > 299 {
		return errorFromBody(r.StatusCode, r.Body)
	}
	return nil
}

// Page is one server-side page of a collection.
type Page struct {
	Items []Record
	Total int
}

// Blob is a downloaded file.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// List issues GET path?query and normalizes the envelope: "items", then
// "data", then the body itself. The result must be an array.
func (c *Client) List(ctx context.Context, path string, query url.Values, token string) ([]Record, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil, token)
	if err != nil {
		return nil, err
	}
	return normalizeList(resp.Body)
}

// ListPage is List for server-queried collections; Total falls back to the
// number of items when the backend does not report one.
func (c *Client) ListPage(ctx context.Context, path string, query url.Values, token string) (Page, error) {
	resp, err := c.send(ctx, http.MethodGet, path, query, nil, token)
	if err != nil {
		return Page{}, err
	}
	items, err := normalizeList(resp.Body)
	if err != nil {
		return Page{}, err
	}
	total := len(items)
	for _, p := range []string{"total", "pagination.total", "meta.total"} {
		if t := gjson.GetBytes(resp.Body, p); t.Type == gjson.Number {
			total = int(t.Int())
			break
		}
	}
	return Page{Items: items, Total: total}, nil
}

// Get fetches one document.
func (c *Client) Get(ctx context.Context, path string, token string) (Record, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil, token)
	if err != nil {
		return nil, err
	}
	return normalizeOne(resp.Body), nil
}

// Create issues POST collection.
func (c *Client) Create(ctx context.Context, collection string, body any, token string) (Record, error) {
	return c.Post(ctx, collection, body, token)
}

// Update issues PUT collection/id.
func (c *Client) Update(ctx context.Context, collection, id string, body any, token string) (Record, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	resp, err := c.send(ctx, http.MethodPut, joinPath(collection, id), nil, body, token)
	if err != nil {
		return nil, err
	}
	return normalizeOne(resp.Body), nil
}

// Delete issues DELETE collection/id.
func (c *Client) Delete(ctx context.Context, collection, id string, token string) error {
	if id == "" {
		return ErrMissingID
	}
	_, err := c.send(ctx, http.MethodDelete, joinPath(collection, id), nil, nil, token)
	return err
}

// Action issues POST collection/id/action, e.g. /sources/:id/flag.
func (c *Client) Action(ctx context.Context, collection, id, action string, body any, token string) (Record, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return c.Post(ctx, joinPath(collection, id, action), body, token)
}

// Post issues POST path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, token string) (Record, error) {
	resp, err := c.send(ctx, http.MethodPost, path, nil, body, token)
	if err != nil {
		return nil, err
	}
	return normalizeOne(resp.Body), nil
}

// Download fetches a binary payload such as a GDPR export.
func (c *Client) Download(ctx context.Context, path string, token string) (*Blob, error) {
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil, token)
	if err != nil {
		return nil, err
	}
	blob := &Blob{
		Data:        resp.Body,
		ContentType: resp.Headers.Get("Content-Type"),
	}
	if cd := resp.Headers.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			blob.Filename = params["filename"]
		}
	}
	if blob.ContentType == "" {
		blob.ContentType = "application/octet-stream"
	}
	return blob, nil
}

// JoinPath builds collection/segment/... with each segment path-escaped.
func JoinPath(base string, segments ...string) string {
	return joinPath(base, segments...)
}

func joinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, token string) (*Response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}

func normalizeList(body []byte) ([]Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrUnexpectedShape
	}
	// A null envelope key counts as missing.
	payload := gjson.GetBytes(body, "items")
	if !present(payload) {
		payload = gjson.GetBytes(body, "data")
	}
	if !present(payload) {
		payload = gjson.ParseBytes(body)
	}
	if !payload.IsArray() {
		return nil, ErrUnexpectedShape
	}

	elems := payload.Array()
	records := make([]Record, 0, len(elems))
	for _, e := range elems {
		records = append(records, Record(e.Raw))
	}
	return records, nil
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func normalizeOne(body []byte) Record {
	if len(bytes.TrimSpace(body)) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	if data := gjson.GetBytes(body, "data"); data.IsObject() {
		return Record(data.Raw)
	}
	return Record(bytes.Clone(body))
}

// NewFromConfig is the fx constructor.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	return New(Config{BaseURL: cfg.BackendURL, Timeout: cfg.BackendTimeout})
}
