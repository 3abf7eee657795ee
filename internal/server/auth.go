package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trackboard/trackboard/internal/trackboard"
)

var errNoToken = errors.New("no bearer token")

// Claims are the access token claims issued by the identity provider. The
// subject is the user's UUID.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 access tokens and answers ownership
// questions about records.
type Authenticator struct {
	secret    []byte
	creatorID string
}

func NewAuthenticator(secret, creatorID string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if creatorID != "" {
		if _, err := uuid.Parse(creatorID); err != nil {
			return nil, fmt.Errorf("creator id: %w", err)
		}
	}
	return &Authenticator{secret: []byte(secret), creatorID: creatorID}, nil
}

// Verify parses token and returns the user it was issued to.
func (a *Authenticator) Verify(token string) (trackboard.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return trackboard.User{}, fmt.Errorf("verifying token: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return trackboard.User{}, fmt.Errorf("token subject: %w", err)
	}
	return trackboard.User{ID: id.String(), Email: claims.Email}, nil
}

// Issue signs a token for user that expires after ttl. The identity
// provider issues tokens in production; Issue serves tests and local
// development.
func (a *Authenticator) Issue(user trackboard.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// CanModify reports whether user may edit or delete rec: its submitter and
// the creator may.
func (a *Authenticator) CanModify(user trackboard.User, rec trackboard.Record) bool {
	if user.ID == "" {
		return false
	}
	return user.ID == rec.SubmittedByID || (a.creatorID != "" && user.ID == a.creatorID)
}

func bearerToken(r *http.Request) (string, error) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || token == "" {
		return "", errNoToken
	}
	return token, nil
}
