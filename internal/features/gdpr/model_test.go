package gdpr

import (
	"context"
	"net/http"
	"testing"

	"ainews-console/internal/backend"
	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/dialog"
	"ainews-console/internal/form"
	"ainews-console/internal/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionsAreValidAndKeySetsMatch(t *testing.T) {
	defs := []screen.Definition{
		NewConsentsDefinition(),
		NewRequestsDefinition(),
		NewBreachesDefinition(),
		NewRetentionDefinition(),
	}
	for _, def := range defs {
		t.Run(def.Name, func(t *testing.T) {
			require.NoError(t, def.Validate())
			assertSameKeys(t, def.Schema, def.Schema.Empty(), def.Schema.Hydrate(backend.Record(`{"_id":"x"}`)))
		})
	}
}

func assertSameKeys(t *testing.T, schema *form.Schema, a, b form.State) {
	t.Helper()
	assert.Len(t, a, len(schema.Paths()))
	assert.Len(t, b, len(schema.Paths()))
	for _, p := range schema.Paths() {
		assert.Contains(t, a, p)
		assert.Contains(t, b, p)
	}
}

func newScreen(t *testing.T, def screen.Definition, docs ...string) (*screen.Screen, *backendtest.Fake) {
	t.Helper()
	fake := backendtest.New(t)
	fake.Seed(def.Collection, docs...)
	s, err := screen.New(def, fake.Client(t), nil, dialog.NewQueue(nil), nil)
	require.NoError(t, err)
	require.NoError(t, s.Refresh(context.Background()))
	return s, fake
}

func TestConsentsHideDeleted(t *testing.T) {
	_, fake := newScreen(t, NewConsentsDefinition())
	calls := fake.Calls(http.MethodGet, ConsentsCollection)
	require.Len(t, calls, 1)
	assert.Equal(t, "false", calls[0].Query.Get("includeDeleted"))
}

func TestExportDownloadsUserData(t *testing.T) {
	s, fake := newScreen(t, NewRequestsDefinition(), `{"_id":"r1","userId":"u 42","type":"portability","status":"completed"}`)
	fake.Blob(ExportPath+"/u 42", "application/zip", "user-u42.zip", []byte("PK\x03\x04"))

	blob, err := s.RunAction(context.Background(), "export", "r1", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/zip", blob.ContentType)
	assert.Equal(t, "user-u42.zip", blob.Filename)
	assert.Equal(t, 1, fake.Count(http.MethodGet, RequestsCollection), "downloads do not refetch the list")
}

func TestResolveBreach(t *testing.T) {
	s, fake := newScreen(t, NewBreachesDefinition(),
		`{"_id":"b1","title":"Leaked backup","severity":"high","status":"investigating"}`,
		`{"_id":"b2","title":"Old","severity":"low","status":"resolved"}`,
	)
	ctx := context.Background()

	_, err := s.RunAction(ctx, "resolve", "b1", map[string]any{"resolution": "Rotated keys "})
	require.NoError(t, err)
	calls := fake.Calls(http.MethodPost, BreachesCollection+"/b1/resolve")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"resolution":"Rotated keys"}`, string(calls[0].Body))

	_, err = s.RunAction(ctx, "resolve", "b2", nil)
	assert.ErrorIs(t, err, screen.ErrUnknownAction, "already resolved")
}

func TestBreachDeleteCopyWarnsAboutRegister(t *testing.T) {
	s, _ := newScreen(t, NewBreachesDefinition(), `{"_id":"b1","title":"Leaked backup"}`)
	d, err := s.PrepareDelete("b1")
	require.NoError(t, err)
	assert.Contains(t, d.Message, "Leaked backup")
	assert.Contains(t, d.Message, "breach register")
	assert.True(t, d.Destructive)
}

func TestRetentionRequiresPositiveDays(t *testing.T) {
	st := RetentionSchema.Empty()
	require.NoError(t, RetentionSchema.Set(st, "dataType", "access_logs"))
	require.NoError(t, RetentionSchema.Set(st, "retentionDays", "0"))
	err := RetentionSchema.Validate(st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Retention (days)")
}
