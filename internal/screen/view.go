package screen

import (
	"ainews-console/internal/backend"
	"ainews-console/internal/common/models"
	"ainews-console/internal/form"
	"ainews-console/internal/listing"
	"ainews-console/internal/modal"
)

type EmptyState struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// View is the JSON view model the shell renders.
type View struct {
	Name     string           `json:"name"`
	Title    string           `json:"title"`
	Columns  []string         `json:"columns"`
	Rows     []backend.Record `json:"rows"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Loading  bool             `json:"loading"`
	Skeleton int              `json:"skeleton,omitempty"`
	Stale    bool             `json:"stale,omitempty"`
	Empty    *EmptyState      `json:"empty,omitempty"`
	ReadOnly bool             `json:"readOnly,omitempty"`

	Query   listing.Query                   `json:"query"`
	Filters map[string][]models.FieldOption `json:"filters"`
	Actions []Action                        `json:"actions,omitempty"`

	Modal         modal.State  `json:"modal"`
	Fields        []form.Field `json:"fields,omitempty"`
	Tabs          []string     `json:"tabs,omitempty"`
	Form          form.State   `json:"form,omitempty"`
	PendingDelete string       `json:"pendingDelete,omitempty"`
}

// View snapshots the screen.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Name:     s.def.Name,
		Title:    s.def.title(),
		Columns:  s.def.Columns,
		Loading:  s.loading,
		Stale:    s.stale,
		ReadOnly: s.def.ReadOnly,
		Filters:  s.def.filterOptions(),
		Actions:  s.def.Actions,
		Modal:    s.modal.State(),
	}

	if s.def.ServerQuery {
		v.Rows = append([]backend.Record{}, s.working...)
		v.Total = s.total
		v.Page = s.query.Page
		if v.Page < 1 {
			v.Page = 1
		}
		v.Pages = pagesFor(s.total, s.def.Listing.PageSize)
		v.Query = s.query
	} else {
		res := listing.Apply(s.working, s.def.Listing, s.query)
		// keep the stored page in step with the clamped one
		s.query.Page = res.Page
		v.Rows, v.Total, v.Page, v.Pages = res.Items, res.Total, res.Page, res.Pages
		v.Query = s.query
	}

	if s.loading && len(s.working) == 0 {
		v.Skeleton = s.def.Listing.PageSize
		if v.Skeleton <= 0 {
			v.Skeleton = 5
		}
	}
	if !s.loading && s.loaded && v.Total == 0 {
		v.Empty = &EmptyState{Message: s.def.emptyMessage(), Action: s.def.emptyAction()}
	}

	if s.def.Schema != nil {
		v.Fields = s.def.Schema.Fields()
		v.Tabs = s.def.Schema.Tabs()
	}
	if s.draft != nil {
		v.Form = s.draft.Clone()
	}
	if s.pending != nil {
		v.PendingDelete = s.pending.id
	}
	return v
}

func pagesFor(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
