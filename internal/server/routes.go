package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, deps Deps) {
	logger, store := deps.Logger, deps.Store

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Trackboard API", "/openapi.json", "/docs"))
	r.Handle("/metrics", promhttp.Handler())
	if deps.Health != nil {
		r.Mount("/healthz", deps.Health)
	}

	writeLimit := func(next http.Handler) http.Handler { return next }
	if deps.WriteRateLimit > 0 {
		writeLimit = httprate.LimitByIP(deps.WriteRateLimit, deps.WriteRateWindow)
	}

	records := recordsDeps{
		logger: logger,
		store:  store,
		auth:   deps.Auth,
		broker: deps.Broker,
		cache:  deps.Cache,
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(optionalUser(deps.Auth))

		r.Get("/tracks", handleListTracks(logger, store, deps.Cache))
		r.Get("/tracks/{track}", handleTrackRecords(logger, store))
		r.Get("/tracks/{track}/events", handleEvents(logger, store, deps.Broker))
		r.Get("/seasons", handleList(logger, "seasons", store.Seasons))
		r.Get("/countries", handleList(logger, "countries", store.Countries))
		r.Get("/resources", handleList(logger, "resources", store.Resources))

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", handleMe(deps.Auth))

			r.Group(func(r chi.Router) {
				r.Use(writeLimit)
				r.Put("/tracks/{track}/personal-record", handlePersonalRecord(logger, store))
				r.Post("/records", handleCreateRecord(records))
				r.Put("/records/{id}", handleUpdateRecord(records))
				r.Delete("/records/{id}", handleDeleteRecord(records))
			})
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
