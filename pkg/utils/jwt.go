package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptyToken = errors.New("empty token")

type UserClaims struct {
	UserID string   `json:"user_id,omitempty"`
	ID     string   `json:"id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Role   string   `json:"role,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the user id under whichever claim the backend used.
func (c *UserClaims) Identity() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.ID != "":
		return c.ID
	}
	return c.RegisteredClaims.Subject
}

func (c *UserClaims) IsAdmin() bool {
	if strings.EqualFold(c.Role, "admin") {
		return true
	}
	for _, r := range c.Roles {
		if strings.EqualFold(r, "admin") {
			return true
		}
	}
	return false
}

// Expired reports whether the exp claim is in the past. Tokens without exp
// never expire here.
func (c *UserClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// DecodeToken reads the claims of a stored token without checking the
// signature. The console never holds the backend's signing key; the backend
// verifies the token on every call it receives.
func DecodeToken(tokenString string) (*UserClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrEmptyToken
	}
	claims := &UserClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// UserClaimsKey is the fiber Locals key for decoded claims.
const UserClaimsKey = "user_claims"
