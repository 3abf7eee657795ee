package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/trackboard/trackboard/internal/cache"
	"github.com/trackboard/trackboard/internal/trackboard"
)

// handleListTracks returns the tracks overview. Anonymous overviews are
// shared by everyone, so they are served from the cache when one is set.
func handleListTracks(logger *slog.Logger, store Store, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, authed := userFrom(r)

		if !authed && c.Enabled() {
			var cached []trackboard.TrackOverview
			hit, err := c.Get(r.Context(), cache.TracksOverviewKey, &cached)
			if err != nil {
				logger.Warn("reading tracks cache", "error", err)
			}
			if hit {
				cacheLookups.WithLabelValues("hit").Inc()
				writeJSON(w, http.StatusOK, cached)
				return
			}
			cacheLookups.WithLabelValues("miss").Inc()
		}

		tracks, err := store.ListTracks(r.Context(), user.ID)
		if err != nil {
			logger.Error("listing tracks", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if !authed {
			if err := c.Set(r.Context(), cache.TracksOverviewKey, tracks); err != nil {
				logger.Warn("writing tracks cache", "error", err)
			}
		}
		writeJSON(w, http.StatusOK, tracks)
	}
}

func handleTrackRecords(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "track")
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}

		tr, err := store.TrackRecords(r.Context(), name)
		if errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		if err != nil {
			logger.Error("loading track records", "track", name, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, tr)
	}
}
