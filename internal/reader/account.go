package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ainews-console/internal/backend"
	"ainews-console/internal/dialog"
	"ainews-console/pkg/utils"

	"go.uber.org/zap"
)

// TokenStore is a TokenSource that can also be written.
type TokenStore interface {
	TokenSource
	Save(token string) error
	Clear() error
}

type LoginResult struct {
	Admin bool           `json:"admin"`
	User  backend.Record `json:"user,omitempty"`
}

// Account signs readers in and out and loads their profile.
type Account struct {
	gw      Gateway
	user    TokenStore
	admin   TokenStore
	dialogs dialog.Presenter
	log     *zap.Logger
}

func NewAccount(gw Gateway, user, admin TokenStore, dialogs dialog.Presenter, log *zap.Logger) *Account {
	if log == nil {
		log = zap.NewNop()
	}
	return &Account{gw: gw, user: user, admin: admin, dialogs: dialogs, log: log.Named("account")}
}

// Login posts the credentials and stores the returned token, under the
// admin key when the account is an admin.
func (a *Account) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.dialogs.Show(dialog.Warning("Missing credentials", "Enter your email and password."))
		return LoginResult{}, ErrMissingCredentials
	}

	rec, err := a.gw.Post(ctx, LoginPath, map[string]string{"email": email, "password": password}, "")
	if err != nil {
		a.log.Info("login rejected", zap.String("email", email), zap.Error(err))
		a.dialogs.Show(dialog.Error("Login failed", backend.Message(err)))
		return LoginResult{}, err
	}

	token := firstString(rec, "token", "accessToken", "access_token")
	if token == "" {
		a.dialogs.Show(dialog.Error("Login failed", "The server did not return a session token."))
		return LoginResult{}, ErrNoToken
	}

	res := LoginResult{Admin: isAdmin(rec, token)}
	if u := rec.Get("user"); u.IsObject() {
		res.User = backend.Record(u.Raw)
	}

	store := a.user
	if res.Admin {
		store = a.admin
	}
	if err := store.Save(token); err != nil {
		return LoginResult{}, fmt.Errorf("save token: %w", err)
	}
	a.log.Info("signed in", zap.String("email", email), zap.Bool("admin", res.Admin))
	a.dialogs.Show(dialog.Success("Signed in", "Welcome back."))
	return res, nil
}

func firstString(rec backend.Record, paths ...string) string {
	for _, p := range paths {
		if v := strings.TrimSpace(rec.Get(p).String()); v != "" {
			return v
		}
	}
	return ""
}

func isAdmin(rec backend.Record, token string) bool {
	if strings.EqualFold(firstString(rec, "user.role", "role"), "admin") {
		return true
	}
	claims, err := utils.DecodeToken(token)
	return err == nil && claims.IsAdmin()
}

// Logout drops both tokens.
func (a *Account) Logout() error {
	return errors.Join(a.user.Clear(), a.admin.Clear())
}

// Profile loads the signed-in reader. A 401/403 means the stored token is no
// longer accepted.
func (a *Account) Profile(ctx context.Context) (backend.Record, error) {
	token, ok := a.user.Token()
	if !ok {
		a.dialogs.Show(dialog.Info("Sign in required", "Please sign in to view your profile."))
		return nil, ErrSignInRequired
	}
	rec, err := a.gw.Get(ctx, ProfilePath, token)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			a.dialogs.Show(dialog.Info("Session expired", "Please sign in again."))
			return nil, err
		}
		a.dialogs.Show(dialog.Error("Failed to load profile", backend.Message(err)))
		return nil, err
	}
	if u := rec.Get("user"); u.IsObject() {
		return backend.Record(u.Raw), nil
	}
	return rec, nil
}
