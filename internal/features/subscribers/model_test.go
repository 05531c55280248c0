package subscribers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"ainews-console/internal/backend/backendtest"
	"ainews-console/internal/dialog"
	"ainews-console/internal/screen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerSideQuery(t *testing.T) {
	fake := backendtest.New(t)
	for i := 0; i < 20; i++ {
		fake.Seed(Collection, fmt.Sprintf(`{"_id":"s%d","user":{"email":"u%d@example.com"},"status":"active"}`, i, i))
	}
	s, err := screen.New(NewDefinition(), fake.Client(t), nil, dialog.NewQueue(nil), nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Refresh(ctx))

	v := s.View()
	assert.Len(t, v.Rows, 15)
	assert.Equal(t, 20, v.Total)
	assert.Equal(t, 2, v.Pages)
	assert.True(t, v.ReadOnly)
	assert.Len(t, v.Filters["plan"], 3)

	require.NoError(t, s.SetSearch(ctx, "u1"))
	require.NoError(t, s.SetSort(ctx, "createdAt", "desc"))
	calls := fake.Calls(http.MethodGet, Collection)
	require.Len(t, calls, 3)
	q := calls[2].Query
	assert.Equal(t, "u1", q.Get("search"))
	assert.Equal(t, "createdAt", q.Get("sort"))
	assert.Equal(t, "desc", q.Get("dir"))
	assert.Equal(t, "1", q.Get("page"))

	assert.ErrorIs(t, s.OpenAdd(), screen.ErrReadOnly)
	_, err = s.PrepareDelete("s0")
	assert.ErrorIs(t, err, screen.ErrReadOnly)
}
