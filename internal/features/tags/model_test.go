package tags

import (
	"testing"

	"ainews-console/internal/backend"
	"ainews-console/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionIsValid(t *testing.T) {
	def := NewDefinition()
	require.NoError(t, def.Validate())
	assert.Equal(t, []string{"Basic", "Display", "SEO"}, def.Schema.Tabs())
}

func TestEmptyAndHydrateShareKeys(t *testing.T) {
	rec := backend.Record(`{"_id":"t1","name":"LLM","slug":"llm","isActive":true}`)
	empty := Schema.Empty()
	hydrated := Schema.Hydrate(rec)
	assert.ElementsMatch(t, keys(empty), keys(hydrated))
	assert.ElementsMatch(t, Schema.Paths(), keys(empty))
}

func TestDeriveSlug(t *testing.T) {
	st := Schema.Empty()
	require.NoError(t, Schema.Set(st, "name", "Large Language Models"))
	deriveSlug(st)
	assert.Equal(t, "large-language-models", st["slug"])

	require.NoError(t, Schema.Set(st, "slug", "llm"))
	deriveSlug(st)
	assert.Equal(t, "llm", st["slug"], "explicit slugs are kept")
}

func TestParentTagReferenceHydratesToID(t *testing.T) {
	rec := backend.Record(`{"_id":"t2","name":"GPT-5","parentTag":{"_id":"t1","name":"LLM"}}`)
	assert.Equal(t, "t1", Schema.Hydrate(rec)["parentTag"])

	body, err := Schema.Unflatten(Schema.Empty())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "parentTag", "blank parent is left out")
}

func keys(st form.State) []string {
	out := make([]string, 0, len(st))
	for k := range st {
		out = append(out, k)
	}
	return out
}
