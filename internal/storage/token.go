package storage

import "strings"

// TokenAccessor reads one bearer token from the store. It is read fresh on
// every call; nothing here refreshes or invalidates tokens.
type TokenAccessor struct {
	store LocalStore
	key   string
}

func NewTokenAccessor(store LocalStore, key string) *TokenAccessor {
	return &TokenAccessor{store: store, key: key}
}

// AdminTokens returns the accessor used by admin screens.
func AdminTokens(store LocalStore) *TokenAccessor {
	return NewTokenAccessor(store, AdminTokenKey)
}

// UserTokens returns the accessor used by public/user screens.
func UserTokens(store LocalStore) *TokenAccessor {
	return NewTokenAccessor(store, UserTokenKey)
}

// Token returns the stored token, trimmed. Blank values count as absent.
func (a *TokenAccessor) Token() (string, bool) {
	v, ok := a.store.Get(a.key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (a *TokenAccessor) Save(token string) error {
	return a.store.Set(a.key, strings.TrimSpace(token))
}

func (a *TokenAccessor) Clear() error {
	return a.store.Remove(a.key)
}
