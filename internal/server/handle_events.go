package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/trackboard/trackboard/internal/trackboard"
)

// handleEvents streams record changes on one track as Server-Sent Events.
func handleEvents(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID, ok := pathID(r, "track")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid track id")
			return
		}
		if _, err := store.Track(r.Context(), trackID); errors.Is(err, trackboard.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		} else if err != nil {
			logger.Error("looking up track", "track_id", trackID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ch := broker.Subscribe(trackID)
		defer broker.Unsubscribe(trackID, ch)

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: record\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
