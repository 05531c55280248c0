// Package listing derives the visible page of a working set. Everything
// here is pure: filtering never touches the network.
package listing

import (
	"sort"
	"strings"

	"ainews-console/internal/backend"

	"github.com/tidwall/gjson"
)

// Spec is a screen's fixed filtering setup.
type Spec struct {
	SearchFields []string `json:"searchFields"`
	FilterFields []string `json:"filterFields"`
	PageSize     int      `json:"pageSize"`
}

// Query is the client-local filter state.
type Query struct {
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
	Sort    string            `json:"sort,omitempty"`
	Dir     string            `json:"dir,omitempty"` // "asc" or "desc"
	Page    int               `json:"page"`
}

// NewQuery starts on page 1 with no filters.
func NewQuery() Query {
	return Query{Filters: map[string]string{}, Page: 1}
}

// WithSearch changes the search text and goes back to page 1.
func (q Query) WithSearch(search string) Query {
	q.Search = search
	q.Page = 1
	return q
}

// WithFilter sets (or with an empty value, clears) one filter and goes back
// to page 1.
func (q Query) WithFilter(field, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	if value == "" {
		delete(filters, field)
	} else {
		filters[field] = value
	}
	q.Filters = filters
	q.Page = 1
	return q
}

// WithSort orders by field ("" keeps backend order) and goes back to page 1.
func (q Query) WithSort(field, dir string) Query {
	q.Sort = field
	q.Dir = "asc"
	if dir == "desc" {
		q.Dir = "desc"
	}
	q.Page = 1
	return q
}

// WithPage moves to another page; Apply clamps it.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// Result is one page of the filtered working set.
type Result struct {
	Items []backend.Record `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
}

// Filter applies search and filters, in that order, all AND-combined, then
// the optional sort.
func Filter(records []backend.Record, spec Spec, q Query) []backend.Record {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]backend.Record, 0, len(records))
	for _, r := range records {
		if needle != "" && !matchesSearch(r, spec.SearchFields, needle) {
			continue
		}
		if !matchesFilters(r, q.Filters) {
			continue
		}
		out = append(out, r)
	}
	if q.Sort != "" {
		sortRecords(out, q.Sort, q.Dir == "desc")
	}
	return out
}

// Apply filters then slices one page. The page is clamped to [1, Pages];
// an empty result is always page 1 of 1.
func Apply(records []backend.Record, spec Spec, q Query) Result {
	filtered := Filter(records, spec, q)
	size := spec.PageSize
	if size <= 0 {
		size = len(filtered)
		if size == 0 {
			size = 1
		}
	}

	pages := (len(filtered) + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Items: filtered[start:end],
		Total: len(filtered),
		Page:  page,
		Pages: pages,
	}
}

func matchesSearch(r backend.Record, fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(r.Get(f).String()), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(r backend.Record, filters map[string]string) bool {
	for field, want := range filters {
		if want == "" {
			continue
		}
		if r.Get(field).String() != want {
			return false
		}
	}
	return true
}

// sortRecords is stable; numbers compare numerically, everything else as
// case-insensitive text, and missing values sort last.
func sortRecords(records []backend.Record, field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Get(field), records[j].Get(field)
		if !a.Exists() || !b.Exists() {
			return a.Exists() && !b.Exists()
		}
		var less, greater bool
		if a.Type == gjson.Number && b.Type == gjson.Number {
			less, greater = a.Num < b.Num, a.Num > b.Num
		} else {
			as, bs := strings.ToLower(a.String()), strings.ToLower(b.String())
			less, greater = as < bs, as > bs
		}
		if desc {
			return greater
		}
		return less
	})
}
