// Package utils holds the patron token helpers shared by the HTTP
// middleware and the token command.
package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// AccessToken is a signed patron token and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// PatronClaims carries the patron identity.  The subject is the patron ID.
type PatronClaims struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid patron token")

// NewPatronToken signs an HS256 token for p valid for ttl.
func NewPatronToken(secret string, p model.Patron, ttl time.Duration) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, errors.New("empty signing secret")
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return AccessToken{}, errors.New("patron id and name are required")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := PatronClaims{
		Name:  p.Name,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParsePatronToken verifies raw and returns the patron it names.
func ParsePatronToken(secret, raw string) (model.Patron, error) {
	var claims PatronClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return model.Patron{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Name == "" {
		return model.Patron{}, fmt.Errorf("%w: missing sub or name", ErrInvalidToken)
	}
	return model.Patron{ID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}
