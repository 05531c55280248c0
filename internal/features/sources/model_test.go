package sources

import (
	"context"
	"net/http"
	"testing"

	"ainews-console/internal/backend"
	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/dialog"
	"ainews-console/internal/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyAndHydrateShareKeys(t *testing.T) {
	rec := backend.Record(`{"_id":"s1","name":"OpenAI Blog","fetchConfig":{"frequencyMinutes":"15"},"credibility":{"score":92,"verified":true}}`)
	hydrated := Schema.Hydrate(rec)
	assert.Len(t, hydrated, len(Schema.Empty()))
	for _, p := range Schema.Paths() {
		assert.Contains(t, hydrated, p)
	}
	assert.Equal(t, float64(15), hydrated["fetchConfig.frequencyMinutes"])
	assert.Equal(t, true, hydrated["credibility.verified"])
}

func TestFlagAction(t *testing.T) {
	fake := backendtest.New(t)
	fake.Seed(Collection,
		`{"_id":"s1","name":"Spam Farm","type":"rss","status":"active"}`,
		`{"_id":"s2","name":"Already","type":"rss","status":"flagged"}`,
	)
	s, err := screen.New(NewDefinition(), fake.Client(t), nil, dialog.NewQueue(nil), nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	_, err = s.RunAction(ctx, "flag", "s1", map[string]any{"reason": "  clickbait "})
	require.NoError(t, err)
	calls := fake.Calls(http.MethodPost, Collection+"/s1/flag")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"reason":"clickbait"}`, string(calls[0].Body))

	_, err = s.RunAction(ctx, "flag", "s2", nil)
	assert.ErrorIs(t, err, screen.ErrUnknownAction)
}

func TestFlagBodyDefaultReason(t *testing.T) {
	assert.Equal(t, map[string]string{"reason": "Flagged from the admin console"}, flagBody(nil, nil))
}
