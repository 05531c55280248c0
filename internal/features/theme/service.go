package theme

import (
	"errors"
	"fmt"

	"ainews-console/internal/storage"
)

const (
	Light = "light"
	Dark  = "dark"
)

var ErrUnknownTheme = errors.New("theme: must be light or dark")

type ThemeService interface {
	Get() string
	Set(theme string) error
	Toggle() (string, error)
}

// ThemeServiceImpl keeps the preference in the local store under ThemeKey.
type ThemeServiceImpl struct {
	store storage.LocalStore
}

func NewThemeService(store storage.LocalStore) ThemeService {
	return &ThemeServiceImpl{store: store}
}

// Get returns the stored theme; anything unrecognised reads as light.
func (s *ThemeServiceImpl) Get() string {
	if v, ok := s.store.Get(storage.ThemeKey); ok && v == Dark {
		return Dark
	}
	return Light
}

func (s *ThemeServiceImpl) Set(theme string) error {
	if theme != Light && theme != Dark {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return s.store.Set(storage.ThemeKey, theme)
}

func (s *ThemeServiceImpl) Toggle() (string, error) {
	next := Dark
	if s.Get() == Dark {
		next = Light
	}
	return next, s.Set(next)
}
