package fab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessibilityRoundTrip(t *testing.T) {
	m := New(DefaultTable())
	assert.False(t, m.State().Open)

	st := m.Toggle()
	assert.True(t, st.Open)
	assert.Equal(t, MainMenu, st.Menu)

	_, st, err := m.Select("accessibility")
	require.NoError(t, err)
	assert.Equal(t, "accessibility", st.Menu)

	st = m.Back()
	assert.Equal(t, MainMenu, st.Menu)
	assert.True(t, st.Open)

	st = m.OutsideClick()
	assert.False(t, st.Open)
	assert.Empty(t, st.Items)
}

func TestSubmenuOverlayKeepsMenu(t *testing.T) {
	m := New(DefaultTable())
	m.Toggle()
	_, _, err := m.Select("share")
	require.NoError(t, err)

	_, st, err := m.Select("social")
	require.NoError(t, err)
	assert.Equal(t, "share", st.Menu)
	assert.Equal(t, "social", st.Submenu)
	assert.Equal(t, "share-x", st.Items[0].ID)

	st = m.Back()
	assert.Equal(t, "share", st.Menu)
	assert.Empty(t, st.Submenu)

	st = m.Back()
	assert.Equal(t, MainMenu, st.Menu)

	st = m.Back()
	assert.False(t, st.Open)
}

func TestLeafActionCloses(t *testing.T) {
	m := New(DefaultTable())
	m.Toggle()
	m.Select("accessibility")
	m.Select("font-size")

	action, st, err := m.Select("font-large")
	require.NoError(t, err)
	assert.Equal(t, "font-large", action)
	assert.False(t, st.Open)
}

func TestOutsideClickFromAnyDepth(t *testing.T) {
	m := New(DefaultTable())
	m.Toggle()
	m.Select("share")
	m.Select("social")

	st := m.OutsideClick()
	assert.False(t, st.Open)
	assert.Empty(t, st.Menu)
	assert.Empty(t, st.Submenu)

	// reopening always starts at main
	st = m.Toggle()
	assert.Equal(t, MainMenu, st.Menu)
	assert.Empty(t, st.Submenu)
}

func TestSelectOnlyVisibleItems(t *testing.T) {
	m := New(DefaultTable())
	_, _, err := m.Select("share")
	assert.ErrorIs(t, err, ErrUnknownItem)

	m.Toggle()
	_, st, err := m.Select("copy-link")
	assert.ErrorIs(t, err, ErrUnknownItem, "copy-link lives in the share menu")
	assert.Equal(t, MainMenu, st.Menu)
}

func TestParseTableValidation(t *testing.T) {
	_, err := ParseTable([]byte(`menus: {other: []}`))
	assert.Error(t, err)

	_, err = ParseTable([]byte(`
menus:
  main:
    - {id: a, label: A, menu: nowhere}
`))
	assert.Error(t, err)

	_, err = ParseTable([]byte(`
menus:
  main:
    - {id: a, label: A, action: x, menu: main}
`))
	assert.Error(t, err)

	tbl, err := ParseTable([]byte(`
menus:
  main:
    - {id: a, label: A, action: x}
`))
	require.NoError(t, err)
	assert.Len(t, tbl.Menus[MainMenu], 1)
}
