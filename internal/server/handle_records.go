package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trackboard/trackboard/internal/cache"
	"github.com/trackboard/trackboard/internal/trackboard"
)

// recordsDeps bundles what the record mutation handlers share.
type recordsDeps struct {
	logger *slog.Logger
	store  Store
	auth   *Authenticator
	broker *Broker
	cache  *cache.Cache
}

// changed publishes ev and drops the cached overview, whose top records and
// counts it may have changed.
func (d recordsDeps) changed(ctx context.Context, ev TrackEvent) {
	d.broker.Publish(ev)
	if err := d.cache.Invalidate(ctx, cache.TracksOverviewKey); err != nil {
		d.logger.Warn("invalidating tracks cache", "error", err)
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// handleCreateRecord stores a record as submitted; the submitting form is
// responsible for its contents. Only the track must exist.
func handleCreateRecord(d recordsDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFrom(r)

		var in trackboard.RecordInput
		if err := readJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		in.Normalize()

		if _, err := d.store.Track(r.Context(), in.TrackID); errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		} else if err != nil {
			d.logger.Error("looking up track", "track_id", in.TrackID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rec, err := d.store.CreateRecord(r.Context(), in, user.ID)
		if err != nil {
			d.logger.Error("creating record", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		recordMutations.WithLabelValues("create").Inc()
		d.changed(r.Context(), TrackEvent{
			Type: EventRecordCreated, TrackID: rec.TrackID, RecordID: rec.ID, Record: rec.Record, Player: rec.Player,
		})
		writeJSON(w, http.StatusCreated, rec)
	}
}

// loadOwned fetches the record named in the path and checks the caller may
// modify it. It writes the error response itself and reports false on
// failure.
func (d recordsDeps) loadOwned(w http.ResponseWriter, r *http.Request) (trackboard.Record, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return trackboard.Record{}, false
	}

	rec, err := d.store.Record(r.Context(), id)
	if errors.Is(err, trackboard.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return rec, false
	}
	if err != nil {
		d.logger.Error("loading record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return rec, false
	}

	user, _ := userFrom(r)
	if !d.auth.CanModify(user, rec) {
		writeError(w, http.StatusForbidden, "only the submitter may change this record")
		return rec, false
	}
	return rec, true
}

func handleUpdateRecord(d recordsDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := d.loadOwned(w, r)
		if !ok {
			return
		}

		var in trackboard.RecordInput
		if err := readJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		in.Normalize()

		updated, err := d.store.UpdateRecord(r.Context(), rec.ID, in)
		if errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			d.logger.Error("updating record", "id", rec.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		recordMutations.WithLabelValues("update").Inc()
		d.changed(r.Context(), TrackEvent{
			Type: EventRecordUpdated, TrackID: updated.TrackID, RecordID: updated.ID, Record: updated.Record, Player: updated.Player,
		})
		writeJSON(w, http.StatusOK, updated)
	}
}

func handleDeleteRecord(d recordsDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := d.loadOwned(w, r)
		if !ok {
			return
		}

		err := d.store.DeleteRecord(r.Context(), rec.ID)
		if errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			d.logger.Error("deleting record", "id", rec.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		recordMutations.WithLabelValues("delete").Inc()
		d.changed(r.Context(), TrackEvent{Type: EventRecordDeleted, TrackID: rec.TrackID, RecordID: rec.ID})
		w.WriteHeader(http.StatusNoContent)
	}
}
