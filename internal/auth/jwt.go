package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTResolver verifies HS256 session tokens from the session cookie or a
// bearer header. The cookie wins when both are present.
type JWTResolver struct {
	secret     []byte
	cookieName string
}

func NewJWTResolver(secret []byte, cookieName string) *JWTResolver {
	return &JWTResolver{secret: secret, cookieName: cookieName}
}

func (v *JWTResolver) Resolve(r *http.Request) (*Session, error) {
	token := ""
	if v.cookieName != "" {
		if c, err := r.Cookie(v.cookieName); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		return nil, nil
	}

	u, err := v.Verify(token)
	if err != nil {
		return nil, err
	}
	return &Session{User: u}, nil
}

// Verify validates the token and extracts the user from the "sub" and
// "email" claims.
func (v *JWTResolver) Verify(tokenString string) (User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return User{}, ErrExpiredToken
		}
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return User{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return User{}, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	email, _ := claims["email"].(string)
	return User{ID: sub, Email: email}, nil
}

// Issue signs a session token for u that expires after ttl.
func (v *JWTResolver) Issue(u User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": u.ID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if u.Email != "" {
		claims["email"] = u.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
