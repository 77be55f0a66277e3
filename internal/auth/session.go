// Package auth resolves the caller's session from an incoming request.
// Credentials are issued elsewhere; this package only verifies them.
package auth

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the authenticated caller.
type Session struct {
	User User `json:"user"`
}

// SessionResolver looks up the session carried by r. It returns (nil, nil)
// when r carries no credentials at all, and an error when it carries
// credentials that do not verify.
type SessionResolver interface {
	Resolve(r *http.Request) (*Session, error)
}

// bearerToken extracts the Bearer token from the Authorization header
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
