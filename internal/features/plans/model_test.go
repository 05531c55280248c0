package plans

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

func TestDeleteCopyDependsOnSubscribersButCallDoesNot(t *testing.T) {
	fake := backendtest.New(t)
	fake.Seed(Collection,
		`{"_id":"p1","name":"Pro","code":"pro","subscriberCount":3}`,
		`{"_id":"p2","name":"Legacy","code":"legacy","subscriberCount":0}`,
	)
	s, err := screen.New(NewDefinition(), fake.Client(t), nil, dialog.NewQueue(nil), nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	withSubs, err := s.PrepareDelete("p1")
	require.NoError(t, err)
	s.CancelDelete()
	without, err := s.PrepareDelete("p2")
	require.NoError(t, err)
	s.CancelDelete()

	assert.NotEqual(t, withSubs.Message, without.Message)
	assert.NotEqual(t, withSubs.Title, without.Title)
	assert.Contains(t, withSubs.Message, "3 active subscribers")

	for _, id := range []string{"p1", "p2"} {
		_, err := s.PrepareDelete(id)
		require.NoError(t, err)
		require.NoError(t, s.ConfirmDelete(ctx))
		assert.Equal(t, 1, fake.Count(http.MethodDelete, Collection+"/"+id))
	}
}

func TestSingularSubscriberCopy(t *testing.T) {
	d := deleteConfirm(backend.Record(`{"name":"Solo","subscriberCount":1}`))
	assert.Contains(t, d.Message, "1 active subscriber.")
}

func TestNormalizeCode(t *testing.T) {
	st := Schema.Empty()
	require.NoError(t, Schema.Set(st, "code", "Pro Annual"))
	normalizeCode(st)
	assert.Equal(t, "pro-annual", st["code"])
}

func TestKeySets(t *testing.T) {
	def := NewDefinition()
	require.NoError(t, def.Validate())
	empty := Schema.Empty()
	hydrated := Schema.Hydrate(backend.Record(`{"_id":"p1","price":{"amount":9.99}}`))
	assert.Len(t, hydrated, len(empty))
	assert.Equal(t, 9.99, hydrated["price.amount"])
}
