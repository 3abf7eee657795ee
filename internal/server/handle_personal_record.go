package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trackboard/trackboard/internal/timemask"
	"github.com/trackboard/trackboard/internal/trackboard"
)

type PersonalRecordRequest struct {
	Record string `json:"record"`
}

type PersonalRecordResponse struct {
	TrackID    int64  `json:"trackId"`
	Record     string `json:"record"`
	ModifiedAt string `json:"modifiedAt,omitempty"`
	Action     string `json:"action"`
}

// handlePersonalRecord saves the caller's personal record on a track. A
// complete time is stored; an empty value or the placeholder clears it;
// anything else is rejected.
func handlePersonalRecord(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFrom(r)

		trackID, ok := pathID(r, "track")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid track id")
			return
		}

		var req PersonalRecordRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Record = strings.TrimSpace(req.Record)

		if _, err := store.Track(r.Context(), trackID); errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		} else if err != nil {
			logger.Error("looking up track", "track_id", trackID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		current, err := store.PersonalRecord(r.Context(), user.ID, trackID)
		if err != nil {
			logger.Error("loading personal record", "track_id", trackID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		action := trackboard.DecidePersonalRecord(current, req.Record)
		resp := PersonalRecordResponse{TrackID: trackID, Record: current, Action: action.String()}

		switch action {
		case trackboard.PRInvalid:
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("invalid record value %q (value should follow pattern %s)", req.Record, timemask.Pattern))
			return
		case trackboard.PRDelete:
			if err := store.DeletePersonalRecord(r.Context(), user.ID, trackID); err != nil {
				logger.Error("deleting personal record", "track_id", trackID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			personalRecordMutations.WithLabelValues("delete").Inc()
			resp.Record = ""
		case trackboard.PRUpsert:
			pr, err := store.UpsertPersonalRecord(r.Context(), user.ID, trackID, req.Record)
			if err != nil {
				logger.Error("saving personal record", "track_id", trackID, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			personalRecordMutations.WithLabelValues("upsert").Inc()
			resp.Record = pr.Record
			resp.ModifiedAt = pr.ModifiedAt
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
