package server

import (
	"context"
	"net/http"

	"github.com/trackboard/trackboard/internal/trackboard"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// optionalUser attaches the token's user to the request when a valid token
// is sent. Requests without a token pass through anonymously; an invalid
// token is rejected.
func optionalUser(auth *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user, err := auth.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireUser rejects requests that optionalUser left anonymous.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFrom(r); !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(r *http.Request) (trackboard.User, bool) {
	u, ok := r.Context().Value(ctxKeyUser).(trackboard.User)
	return u, ok
}
