// Package form turns nested backend documents into flat, dot-path keyed
// drafts and back. One Schema per entity type drives the empty template,
// edit hydration, validation and the request body, so the three can not
// drift apart.
package form

import (
	"fmt"
	"sort"
	"strings"

	"ainews-console/internal/common/models"
)

// Field is one leaf of the backend document.
type Field struct {
	Path      string               `json:"path"`
	Label     string               `json:"label"`
	Type      models.FieldType     `json:"type"`
	Default   any                  `json:"default,omitempty"`
	Required  bool                 `json:"required,omitempty"`
	Options   []models.FieldOption `json:"options,omitempty"`
	Tab       string               `json:"tab,omitempty"`
	OmitEmpty bool                 `json:"-"` // leave the key out of the body when blank
}

// Schema is an ordered set of fields.
type Schema struct {
	fields []Field
	index  map[string]int
	tabs   []string
}

// NewSchema checks that paths are unique, non-empty and that no path is a
// prefix of another ("seo" next to "seo.title" would need two leaves).
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(fields))}
	seenTab := make(map[string]bool)

	for i, f := range fields {
		if f.Path == "" || strings.HasPrefix(f.Path, ".") || strings.HasSuffix(f.Path, ".") || strings.Contains(f.Path, "..") {
			return nil, fmt.Errorf("field %d: invalid path %q", i, f.Path)
		}
		if _, dup := s.index[f.Path]; dup {
			return nil, fmt.Errorf("duplicate path %q", f.Path)
		}
		if f.Type == "" {
			f.Type = models.FieldTypeText
		}
		if f.Label == "" {
			f.Label = f.Path
		}
		s.index[f.Path] = len(s.fields)
		s.fields = append(s.fields, f)
		if f.Tab != "" && !seenTab[f.Tab] {
			seenTab[f.Tab] = true
			s.tabs = append(s.tabs, f.Tab)
		}
	}

	paths := s.Paths()
	sort.Strings(paths)
	for i := 1; i < len(paths); i++ {
		if strings.HasPrefix(paths[i], paths[i-1]+".") {
			return nil, fmt.Errorf("path %q shadows %q", paths[i-1], paths[i])
		}
	}
	return s, nil
}

// MustSchema is NewSchema for package-level definitions.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns a copy of the field list.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Paths lists every path in declaration order.
func (s *Schema) Paths() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Path
	}
	return out
}

// Tabs lists the tabs in order of first appearance.
func (s *Schema) Tabs() []string {
	return append([]string(nil), s.tabs...)
}

// Field looks up one field by path.
func (s *Schema) Field(path string) (Field, bool) {
	i, ok := s.index[path]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}
