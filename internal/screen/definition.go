// Package screen is the generic admin resource screen: a working set fetched
// from one backend collection, filtered and paginated locally, edited through
// a flat form draft inside a modal, with every write followed by one refresh.
package screen

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/dialog"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
)

var (
	ErrNotFound          = errors.New("screen: record not in working set")
	ErrNoForm            = errors.New("screen: no add or edit form is open")
	ErrNoPendingDelete   = errors.New("screen: no delete awaiting confirmation")
	ErrUnknownAction     = errors.New("screen: unknown action")
	ErrUnknownFilter     = errors.New("screen: unknown filter field")
	ErrReadOnly          = errors.New("screen: screen is read-only")
	ErrInvalidDefinition = errors.New("screen: invalid definition")
)

type ActionKind string

const (
	// ActionPost sends POST collection/:id/<name> and refreshes.
	ActionPost ActionKind = "post"
	// ActionDownload fetches a blob and hands it back to the caller.
	ActionDownload ActionKind = "download"
)

// Action is a per-record operation beyond create/update/delete.
type Action struct {
	Name    string     `json:"name"`
	Label   string     `json:"label"`
	Kind    ActionKind `json:"kind"`
	Success string     `json:"-"`
	// Input names the fields the shell should prompt for before running it.
	Input []string `json:"input,omitempty"`
	// Path builds the download path for ActionDownload.
	Path func(rec backend.Record) string `json:"-"`
	// Body shapes the POST body from the prompted input; nil sends input as is.
	Body func(rec backend.Record, input map[string]any) any `json:"-"`
	// Available hides the action for records it does not apply to.
	Available func(rec backend.Record) bool `json:"-"`
}

func (a Action) availableFor(rec backend.Record) bool {
	return a.Available == nil || a.Available(rec)
}

// Definition declares one resource screen. Feature packages register them
// through the "screens" fx group.
type Definition struct {
	Name     string
	Title    string
	Singular string
	// Collection is the backend path; ListQuery is appended on list GETs.
	Collection string
	ListQuery  url.Values
	Schema     *form.Schema
	Listing    listing.Spec
	// Columns are the dot paths shown in the table and exported.
	Columns []string
	// FilterOptions overrides the dropdown values derived from select fields.
	FilterOptions map[string][]models.FieldOption

	EmptyMessage string
	EmptyAction  string

	ReadOnly bool
	// ServerQuery screens send page/search/filters/sort to the backend and
	// render the returned page as is.
	ServerQuery bool

	// Prepare adjusts a validated copy of the draft before it is sent.
	Prepare func(st form.State)
	// DeleteConfirm builds the confirmation copy for rec.
	DeleteConfirm func(rec backend.Record) dialog.Dialog
	// Label names a record in dialogs; defaults to name or title.
	Label func(rec backend.Record) string

	Actions []Action
}

// Validate checks the definition is complete enough to drive a screen.
func (d *Definition) Validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	case d.Collection == "":
		return fmt.Errorf("%w: %s has no collection", ErrInvalidDefinition, d.Name)
	case d.Schema == nil && !d.ReadOnly:
		return fmt.Errorf("%w: %s has no schema", ErrInvalidDefinition, d.Name)
	}
	for _, a := range d.Actions {
		if a.Kind == ActionDownload && a.Path == nil {
			return fmt.Errorf("%w: %s action %s has no download path", ErrInvalidDefinition, d.Name, a.Name)
		}
	}
	return nil
}

func (d *Definition) title() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func (d *Definition) singular() string {
	if d.Singular != "" {
		return d.Singular
	}
	return strings.TrimSuffix(d.title(), "s")
}

func (d *Definition) emptyMessage() string {
	if d.EmptyMessage != "" {
		return d.EmptyMessage
	}
	return "No " + strings.ToLower(d.title()) + " found"
}

func (d *Definition) emptyAction() string {
	if d.ReadOnly {
		return ""
	}
	if d.EmptyAction != "" {
		return d.EmptyAction
	}
	return "Add " + d.singular()
}

func (d *Definition) label(rec backend.Record) string {
	if d.Label != nil {
		return d.Label(rec)
	}
	for _, path := range []string{"name", "title"} {
		if v := rec.Get(path).String(); v != "" {
			return v
		}
	}
	return rec.ID()
}

func (d *Definition) deleteConfirm(rec backend.Record) dialog.Dialog {
	if d.DeleteConfirm != nil {
		return d.DeleteConfirm(rec)
	}
	return dialog.Confirm(
		"Delete "+d.singular(),
		fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", d.label(rec)),
		"Delete",
	)
}

func (d *Definition) action(name string) (Action, bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// HasFilter reports whether field is one of the screen's filters.
func (d *Definition) HasFilter(field string) bool {
	for _, f := range d.Listing.FilterFields {
		if f == field {
			return true
		}
	}
	return false
}

// filterOptions merges explicit options with those of select/boolean fields.
func (d *Definition) filterOptions() map[string][]models.FieldOption {
	out := make(map[string][]models.FieldOption, len(d.Listing.FilterFields))
	for _, field := range d.Listing.FilterFields {
		if opts, ok := d.FilterOptions[field]; ok {
			out[field] = opts
			continue
		}
		if d.Schema == nil {
			continue
		}
		f, ok := d.Schema.Field(field)
		if !ok {
			continue
		}
		switch f.Type {
		case models.FieldTypeSelect:
			out[field] = f.Options
		case models.FieldTypeBoolean:
			out[field] = []models.FieldOption{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}
		}
	}
	return out
}

// listQuery is the query string for a refresh.
func (d *Definition) listQuery(q listing.Query) url.Values {
	out := url.Values{}
	for k, vs := range d.ListQuery {
		out[k] = append([]string(nil), vs...)
	}
	if !d.ServerQuery {
		return out
	}
	out.Set("page", fmt.Sprint(q.Page))
	if d.Listing.PageSize > 0 {
		out.Set("limit", fmt.Sprint(d.Listing.PageSize))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		out.Set("search", s)
	}
	for k, v := range q.Filters {
		if v != "" {
			out.Set(k, v)
		}
	}
	if q.Sort != "" {
		out.Set("sort", q.Sort)
		out.Set("dir", q.Dir)
	}
	return out
}
