package screen

import (
	"testing"

	"ainews-console/internal/dialog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	sub := Definition{Name: "subscribers", Collection: "/api/admin/subscriptions", ReadOnly: true}
	r, err := NewRegistry([]Definition{tagDefinition(), sub})
	require.NoError(t, err)
	assert.Equal(t, []string{"subscribers", "tags"}, r.Names())

	def, ok := r.Definition("tags")
	require.True(t, ok)
	assert.Equal(t, "Tags", def.Title)

	screens := r.Build(nil, nil, dialog.NewQueue(nil), nil)
	assert.Len(t, screens, 2)
	assert.NotSame(t, screens["tags"], r.Build(nil, nil, dialog.NewQueue(nil), nil)["tags"])
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Definition{tagDefinition(), tagDefinition()})
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	_, err = NewRegistry([]Definition{{Name: "broken"}})
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}
