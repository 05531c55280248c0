package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ainews-console/internal/storage"
	"ainews-console/pkg/utils"
)

const (
	KindAdmin = "admin"
	KindUser  = "user"
)

var ErrUnknownKind = errors.New("user: token kind must be admin or user")

// Identity describes one stored token. Opaque tokens are present but carry
// no readable claims.
type Identity struct {
	Kind      string     `json:"kind"`
	Present   bool       `json:"present"`
	Opaque    bool       `json:"opaque,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	Admin     bool       `json:"admin,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

type UserService interface {
	Me() []Identity
	Identity(kind string) (Identity, error)
	SetToken(kind, token string) error
	ClearToken(kind string) error
}

type UserServiceImpl struct {
	store storage.LocalStore
	now   func() time.Time
}

func NewUserService(store storage.LocalStore) UserService {
	return &UserServiceImpl{store: store, now: time.Now}
}

func (s *UserServiceImpl) accessor(kind string) (*storage.TokenAccessor, error) {
	switch kind {
	case KindAdmin:
		return storage.AdminTokens(s.store), nil
	case KindUser:
		return storage.UserTokens(s.store), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Me describes both stored tokens.
func (s *UserServiceImpl) Me() []Identity {
	admin, _ := s.Identity(KindAdmin)
	reader, _ := s.Identity(KindUser)
	return []Identity{admin, reader}
}

func (s *UserServiceImpl) Identity(kind string) (Identity, error) {
	acc, err := s.accessor(kind)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{Kind: kind}
	token, ok := acc.Token()
	if !ok {
		return id, nil
	}
	id.Present = true

	claims, err := utils.DecodeToken(token)
	if err != nil {
		id.Opaque = true
		return id, nil
	}
	id.UserID = claims.Identity()
	id.Email = claims.Email
	id.Name = claims.Name
	id.Admin = claims.IsAdmin()
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		id.ExpiresAt = &exp
	}
	id.Expired = claims.Expired(s.now())
	return id, nil
}

func (s *UserServiceImpl) SetToken(kind, token string) error {
	acc, err := s.accessor(kind)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return utils.ErrEmptyToken
	}
	return acc.Save(token)
}

func (s *UserServiceImpl) ClearToken(kind string) error {
	acc, err := s.accessor(kind)
	if err != nil {
		return err
	}
	return acc.Clear()
}
