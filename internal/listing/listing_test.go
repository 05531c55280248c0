package listing

import (
	"fmt"
	"testing"

	"ainews-console/internal/backend"

	"github.com/stretchr/testify/assert"
)

var sourcesSpec = Spec{SearchFields: []string{"name", "url"}, FilterFields: []string{"type", "status"}, PageSize: 2}

func sources() []backend.Record {
	return []backend.Record{
		backend.Record(`{"_id":"1","name":"OpenAI Blog","url":"https://openai.com/blog","type":"rss","status":"active"}`),
		backend.Record(`{"_id":"2","name":"Hacker News","url":"https://news.ycombinator.com","type":"api","status":"active"}`),
		backend.Record(`{"_id":"3","name":"ArXiv cs.AI","url":"https://arxiv.org","type":"rss","status":"paused"}`),
		backend.Record(`{"_id":"4","name":"DeepMind","url":"https://deepmind.google/blog","type":"scraper","status":"active"}`),
		backend.Record(`{"_id":"5","name":"Spam Farm","url":"https://spam.example","type":"rss","status":"flagged"}`),
	}
}

func ids(records []backend.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func TestFilterSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := Filter(sources(), sourcesSpec, NewQuery().WithSearch("BLOG"))
	assert.Equal(t, []string{"1", "4"}, ids(got))
}

func TestFilterCombinesWithAnd(t *testing.T) {
	q := NewQuery().WithFilter("type", "rss").WithFilter("status", "active")
	assert.Equal(t, []string{"1"}, ids(Filter(sources(), sourcesSpec, q)))

	q = q.WithFilter("status", "")
	assert.Equal(t, []string{"1", "3", "5"}, ids(Filter(sources(), sourcesSpec, q)))
}

func TestFilterMatchesBooleansAsText(t *testing.T) {
	records := []backend.Record{
		backend.Record(`{"_id":"a","isActive":true}`),
		backend.Record(`{"_id":"b","isActive":false}`),
	}
	got := Filter(records, Spec{}, NewQuery().WithFilter("isActive", "false"))
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestApplyPaginates(t *testing.T) {
	res := Apply(sources(), sourcesSpec, NewQuery().WithPage(2))
	assert.Equal(t, []string{"3", "4"}, ids(res.Items))
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.Page)

	res = Apply(sources(), sourcesSpec, NewQuery().WithPage(3))
	assert.Equal(t, []string{"5"}, ids(res.Items))
}

func TestApplyClampsPage(t *testing.T) {
	res := Apply(sources(), sourcesSpec, NewQuery().WithPage(99))
	assert.Equal(t, 3, res.Page)

	res = Apply(sources(), sourcesSpec, NewQuery().WithPage(-4))
	assert.Equal(t, 1, res.Page)
}

func TestZeroMatchesFromDeepPageIsPageOne(t *testing.T) {
	q := NewQuery().WithPage(3)
	q.Search = "xyz" // set directly: the page must still clamp
	res := Apply(sources(), sourcesSpec, q)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
}

func TestChangingFiltersResetsPage(t *testing.T) {
	q := NewQuery().WithPage(3)
	assert.Equal(t, 1, q.WithSearch("a").Page)
	assert.Equal(t, 1, q.WithFilter("type", "rss").Page)
}

func TestWithFilterDoesNotAliasMaps(t *testing.T) {
	base := NewQuery().WithFilter("type", "rss")
	_ = base.WithFilter("status", "active")
	assert.Equal(t, map[string]string{"type": "rss"}, base.Filters)
}

func TestApplyWithoutPageSizeReturnsEverything(t *testing.T) {
	var records []backend.Record
	for i := 0; i < 30; i++ {
		records = append(records, backend.Record(fmt.Sprintf(`{"_id":"%d"}`, i)))
	}
	res := Apply(records, Spec{}, NewQuery())
	assert.Len(t, res.Items, 30)
	assert.Equal(t, 1, res.Pages)
}

func TestSortNumericAndText(t *testing.T) {
	records := []backend.Record{
		backend.Record(`{"_id":"a","name":"beta","score":10}`),
		backend.Record(`{"_id":"b","name":"Alpha","score":9}`),
		backend.Record(`{"_id":"c","score":100}`),
	}

	byScore := Filter(records, Spec{}, NewQuery().WithSort("score", "asc"))
	assert.Equal(t, []string{"b", "a", "c"}, ids(byScore))

	byScoreDesc := Filter(records, Spec{}, NewQuery().WithSort("score", "desc"))
	assert.Equal(t, []string{"c", "a", "b"}, ids(byScoreDesc))

	byName := Filter(records, Spec{}, NewQuery().WithSort("name", "asc"))
	assert.Equal(t, []string{"b", "a", "c"}, ids(byName), "missing values sort last")

	assert.Equal(t, []string{"a", "b", "c"}, ids(records), "input is not reordered")
}
