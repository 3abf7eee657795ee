package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/trackboard/trackboard/internal/trackboard"
)

// handleList serves a reference table that needs no parameters.
func handleList[T any](logger *slog.Logger, name string, list func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			logger.Error("listing "+name, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	trackboard.User
	IsCreator bool `json:"isCreator"`
}

func handleMe(auth *Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFrom(r)
		writeJSON(w, http.StatusOK, MeResponse{
			User:      user,
			IsCreator: auth.creatorID != "" && user.ID == auth.creatorID,
		})
	}
}
