package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToggleTheme(t *testing.T) {
	t.Run("unset theme flips to dark", func(t *testing.T) {
		s := &Session{}
		assert.Equal(t, ThemeLight, s.CurrentTheme())
		assert.Equal(t, ThemeDark, s.ToggleTheme())
		assert.True(t, s.Modified)
	})

	t.Run("toggling twice restores the original", func(t *testing.T) {
		for _, start := range []Theme{"", ThemeLight, ThemeDark} {
			s := &Session{Theme: start}
			before := s.CurrentTheme()
			s.ToggleTheme()
			s.ToggleTheme()
			assert.Equal(t, before, s.CurrentTheme(), "start=%q", start)
		}
	})
}

func TestSessionIdentity(t *testing.T) {
	s := &Session{}
	assert.False(t, s.IsAuthenticated())

	s.ClearIdentity()
	assert.False(t, s.Modified, "clearing an anonymous session must not mark it dirty")

	s.SetIdentity("abc", "a@example.com")
	require.True(t, s.IsAuthenticated())
	assert.Equal(t, "abc", *s.UserID)
	assert.Equal(t, "a@example.com", *s.Email)

	s.Modified = false
	s.ClearIdentity()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.UserID)
	assert.Nil(t, s.Email)
	assert.True(t, s.Modified)
}

func TestSessionFlashes(t *testing.T) {
	s := &Session{}
	assert.Nil(t, s.PopFlashes())
	assert.False(t, s.Modified)

	s.AddFlash(FlashSuccess, "one")
	s.AddFlash(FlashDanger, "two")

	flashes := s.PopFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, Flash{Category: FlashSuccess, Message: "one"}, flashes[0])
	assert.Equal(t, FlashDanger, flashes[1].Category)
	assert.Empty(t, s.PopFlashes())
}
