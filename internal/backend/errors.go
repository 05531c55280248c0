package backend

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrUnexpectedShape = errors.New("backend: response is not a list")
	ErrMissingID       = errors.New("backend: record id is required")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unauthorized reports a 401/403, the only way an expired token shows up.
func (e *APIError) Unauthorized() bool {
	return e.Status == 401 || e.Status == 403
}

// errorFromBody reads "message", then "error", else falls back to a generic text.
func errorFromBody(status int, body []byte) *APIError {
	msg := ""
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Type == gjson.String && m.String() != "" {
			msg = m.String()
		} else if e := gjson.GetBytes(body, "error"); e.Type == gjson.String && e.String() != "" {
			msg = e.String()
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// Message extracts user-facing text from any error produced by this package.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
