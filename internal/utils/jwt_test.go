package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

func TestPatronTokenRoundTrip(t *testing.T) {
	p := model.Patron{ID: "user-9", Name: "Sarah Johnson", Email: "sarah@example.edu"}
	tok, err := NewPatronToken("s3cret", p, time.Hour)
	if err != nil {
		t.Fatalf("NewPatronToken: %v", err)
	}
	got, err := ParsePatronToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("ParsePatronToken: %v", err)
	}
	if got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}
}

func TestParsePatronTokenRejects(t *testing.T) {
	p := model.Patron{ID: "user-9", Name: "Sarah"}
	good, _ := NewPatronToken("s3cret", p, time.Hour)
	expired, _ := NewPatronToken("s3cret", p, -time.Minute)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x", "name": "y"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"alg none":     none,
		"garbage":      "not-a-jwt",
	} {
		secret := "s3cret"
		if name == "wrong secret" {
			secret = "other"
		}
		if _, err := ParsePatronToken(secret, raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewPatronTokenRequiresIdentity(t *testing.T) {
	if _, err := NewPatronToken("s", model.Patron{Name: "x"}, time.Hour); err == nil {
		t.Fatal("expected error without id")
	}
	if _, err := NewPatronToken("", model.Patron{ID: "1", Name: "x"}, time.Hour); err == nil {
		t.Fatal("expected error without secret")
	}
}
