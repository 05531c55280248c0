package dialog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessAutoDismisses(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewQueue(nil).WithClock(func() time.Time { return now })

	q.Show(Success("Saved", "Tag created"))
	errDialog := q.Show(Error("Failed", "boom"))
	require.Len(t, q.Active(), 2)

	now = now.Add(SuccessTimeout)
	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, errDialog.ID, active[0].ID)
}

func TestDismiss(t *testing.T) {
	q := NewQueue(nil)
	d := q.Show(Confirm("Delete tag?", "This can not be undone.", "Delete"))
	assert.True(t, d.Destructive)
	assert.NotEmpty(t, d.ID)

	assert.True(t, q.Dismiss(d.ID))
	assert.False(t, q.Dismiss(d.ID))
	assert.Empty(t, q.Active())
}

func TestActiveReturnsCopy(t *testing.T) {
	q := NewQueue(nil)
	q.Show(Info("Heads up", "x"))
	active := q.Active()
	active[0].Title = "changed"
	assert.Equal(t, "Heads up", q.Active()[0].Title)

	q.Clear()
	assert.Empty(t, q.Active())
}
