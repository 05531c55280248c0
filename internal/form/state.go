package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrUnknownField = errors.New("form: unknown field")

// State is a flat draft: dot path -> string, float64, bool or []string.
type State map[string]any

// Clone copies the state, including slice values.
func (st State) Clone() State {
	out := make(State, len(st))
	for k, v := range st {
		if ss, ok := v.([]string); ok {
			v = append([]string{}, ss...)
		}
		out[k] = v
	}
	return out
}

// ValidationError lists the labels of required fields left blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Please fill in: " + strings.Join(e.Missing, ", ")
}

// Empty is the template for "add": every path at its default.
func (s *Schema) Empty() State {
	st := make(State, len(s.fields))
	for _, f := range s.fields {
		st[f.Path] = defaultFor(f)
	}
	return st
}

// Hydrate is the draft for "edit": every path read from rec, falling back
// to the default when the record has no usable value.
func (s *Schema) Hydrate(rec backend.Record) State {
	st := make(State, len(s.fields))
	for _, f := range s.fields {
		st[f.Path] = fromResult(f, rec.Get(f.Path))
	}
	return st
}

// Set coerces value to the field's type and stores it.
func (s *Schema) Set(st State, path string, value any) error {
	f, ok := s.Field(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	v, err := coerce(f, value)
	if err != nil {
		return fmt.Errorf("%s: %w", f.Label, err)
	}
	st[path] = v
	return nil
}

// Validate checks required fields.
func (s *Schema) Validate(st State) error {
	var missing []string
	for _, f := range s.fields {
		if f.Required && isBlank(st[f.Path]) {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Unflatten builds the nested JSON body by splitting each path on ".".
func (s *Schema) Unflatten(st State) (json.RawMessage, error) {
	body := []byte(`{}`)
	for _, f := range s.fields {
		v, ok := st[f.Path]
		if !ok {
			v = defaultFor(f)
		}
		if f.OmitEmpty && isBlank(v) {
			continue
		}
		var err error
		body, err = sjson.SetBytes(body, f.Path, v)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", f.Path, err)
		}
	}
	return json.RawMessage(body), nil
}

func defaultFor(f Field) any {
	if f.Default != nil {
		if v, err := coerce(f, f.Default); err == nil {
			return v
		}
	}
	switch f.Type {
	case models.FieldTypeNumber:
		return float64(0)
	case models.FieldTypeBoolean:
		return false
	case models.FieldTypeMultiSelect:
		return []string{}
	default:
		return ""
	}
}

func fromResult(f Field, r gjson.Result) any {
	if !r.Exists() || r.Type == gjson.Null {
		return defaultFor(f)
	}
	switch f.Type {
	case models.FieldTypeNumber:
		if r.Type == gjson.Number {
			return r.Float()
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64); err == nil {
			return n
		}
		return defaultFor(f)
	case models.FieldTypeBoolean:
		switch r.Type {
		case gjson.True, gjson.False:
			return r.Bool()
		}
		if b, err := strconv.ParseBool(r.String()); err == nil {
			return b
		}
		return defaultFor(f)
	case models.FieldTypeMultiSelect:
		if !r.IsArray() {
			return splitList(r.String())
		}
		out := []string{}
		for _, e := range r.Array() {
			if e.String() != "" {
				out = append(out, e.String())
			}
		}
		return out
	case models.FieldTypeDate:
		return dateOnly(r.String())
	default:
		if r.IsObject() {
			// A populated reference such as parentTag: {_id, name}
			if id := r.Get("_id"); id.Exists() {
				return id.String()
			}
		}
		return r.String()
	}
}

func coerce(f Field, value any) (any, error) {
	switch f.Type {
	case models.FieldTypeNumber:
		switch v := value.(type) {
		case nil:
			return float64(0), nil
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return float64(0), nil
			}
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number: %q", v)
			}
			return n, nil
		}
	case models.FieldTypeBoolean:
		switch v := value.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("not a boolean: %q", v)
			}
			return b, nil
		}
	case models.FieldTypeMultiSelect:
		switch v := value.(type) {
		case nil:
			return []string{}, nil
		case []string:
			return append([]string{}, v...), nil
		case []any:
			out := make([]string, 0, len(v))
			for _, e := range v {
				if s := strings.TrimSpace(fmt.Sprint(e)); s != "" {
					out = append(out, s)
				}
			}
			return out, nil
		case string:
			return splitList(v), nil
		}
	default:
		switch v := value.(type) {
		case nil:
			return "", nil
		case string:
			if f.Type == models.FieldTypeDate {
				return dateOnly(v), nil
			}
			return v, nil
		case float64, int, int64, bool, json.Number:
			return fmt.Sprint(v), nil
		}
	}
	return nil, fmt.Errorf("unsupported value %T", value)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dateOnly keeps YYYY-MM-DD out of an ISO timestamp.
func dateOnly(s string) string {
	if len(s) > 10 && s[10] == 'T' {
		return s[:10]
	}
	return s
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case float64:
		return x == 0
	}
	return false
}
