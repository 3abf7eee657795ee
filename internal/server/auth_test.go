package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trackboard/trackboard/internal/trackboard"
)

func TestAuthenticatorRoundTrip(t *testing.T) {
	a, err := NewAuthenticator(testSecret, "")
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	u := trackboard.User{ID: uuid.NewString(), Email: "amy@example.com"}

	tok, err := a.Issue(u, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != u {
		t.Errorf("got %+v, want %+v", got, u)
	}
}

func TestAuthenticatorRejects(t *testing.T) {
	a, _ := NewAuthenticator(testSecret, "")
	other, _ := NewAuthenticator("another-secret", "")
	u := trackboard.User{ID: uuid.NewString()}

	expired, _ := a.Issue(u, -time.Minute)
	wrongKey, _ := other.Issue(u, time.Minute)
	notUUID, _ := a.Issue(trackboard.User{ID: "bob"}, time.Minute)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID},
	}).SignedString([]byte(testSecret))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString([]byte(testSecret))

	tests := map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"subject":      notUUID,
		"no expiry":    noExpiry,
		"wrong method": hs512,
		"garbage":      "a.b.c",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := a.Verify(tok); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewAuthenticatorValidates(t *testing.T) {
	if _, err := NewAuthenticator("", ""); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewAuthenticator(testSecret, "not-a-uuid"); err == nil {
		t.Error("expected error for bad creator id")
	}
}

func TestCanModify(t *testing.T) {
	creator := uuid.NewString()
	a, _ := NewAuthenticator(testSecret, creator)
	owner := uuid.NewString()
	rec := trackboard.Record{SubmittedByID: owner}

	tests := []struct {
		name string
		user string
		want bool
	}{
		{"owner", owner, true},
		{"creator", creator, true},
		{"stranger", uuid.NewString(), false},
		{"anonymous", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.CanModify(trackboard.User{ID: tt.user}, rec); got != tt.want {
				t.Errorf("CanModify = %v, want %v", got, tt.want)
			}
		})
	}

	// A record without a submitter is only editable by the creator.
	if a.CanModify(trackboard.User{ID: ""}, trackboard.Record{}) {
		t.Error("anonymous user matched empty submitter")
	}
}
