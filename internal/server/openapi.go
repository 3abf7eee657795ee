package server

import (
	"net/http"

	"github.com/goccy/go-json"
	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/trackboard/trackboard/internal/trackboard"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

// TrackPath and RecordPath describe path parameters in the API document.
type TrackPath struct {
	Track string `path:"track" description:"Track name, or track ID for nested routes"`
}

type RecordPath struct {
	ID int64 `path:"id"`
}

type PersonalRecordInput struct {
	TrackPath
	PersonalRecordRequest
}

type UpdateRecordInput struct {
	RecordPath
	trackboard.RecordInput
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Trackboard API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Track catalog and leaderboard of best race times.")
	r.Spec.SetHTTPBearerTokenSecurity("bearer", "JWT", "Access token issued by the identity provider.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/tracks
	listTracks, _ := r.NewOperationContext(http.MethodGet, "/api/tracks")
	listTracks.SetSummary("List tracks")
	listTracks.SetDescription("Every track in list order with its fastest record and record count. With a Bearer token each track carries the caller's personal record.")
	listTracks.AddRespStructure([]trackboard.TrackOverview{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listTracks)

	// GET /api/tracks/{track}
	getTrack, _ := r.NewOperationContext(http.MethodGet, "/api/tracks/{track}")
	getTrack.SetSummary("Track records")
	getTrack.SetDescription("A track, looked up by name, with all its records fastest first.")
	getTrack.AddReqStructure(TrackPath{})
	getTrack.AddRespStructure(trackboard.TrackRecords{}, openapi.WithHTTPStatus(http.StatusOK))
	getTrack.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getTrack)

	// GET /api/tracks/{track}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/tracks/{track}/events")
	getEvents.SetSummary("Track event stream")
	getEvents.SetDescription("Server-Sent Events stream of record changes on the track with this ID.")
	getEvents.AddReqStructure(TrackPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	// PUT /api/tracks/{track}/personal-record
	putPR, _ := r.NewOperationContext(http.MethodPut, "/api/tracks/{track}/personal-record")
	putPR.SetSummary("Save personal record")
	putPR.SetDescription("Stores a complete MM:SS.mmm time as the caller's personal record on the track with this ID. An empty value or --:--.--- clears it. Requires Bearer token.")
	putPR.AddSecurity("bearer")
	putPR.AddReqStructure(PersonalRecordInput{})
	putPR.AddRespStructure(PersonalRecordResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putPR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putPR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	putPR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putPR)

	// GET /api/seasons
	getSeasons, _ := r.NewOperationContext(http.MethodGet, "/api/seasons")
	getSeasons.SetSummary("List seasons")
	getSeasons.SetDescription("Season start dates in order.")
	getSeasons.AddRespStructure([]trackboard.Season{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSeasons)

	// GET /api/countries
	getCountries, _ := r.NewOperationContext(http.MethodGet, "/api/countries")
	getCountries.SetSummary("List countries")
	getCountries.SetDescription("Countries by code. The ALL entry is not a valid record region.")
	getCountries.AddRespStructure([]trackboard.Country{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCountries)

	// GET /api/resources
	getResources, _ := r.NewOperationContext(http.MethodGet, "/api/resources")
	getResources.SetSummary("List resources")
	getResources.SetDescription("Community guides and tools, by name.")
	getResources.AddRespStructure([]trackboard.Resource{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getResources)

	// POST /api/records
	postRecord, _ := r.NewOperationContext(http.MethodPost, "/api/records")
	postRecord.SetSummary("Submit record")
	postRecord.SetDescription("Stores a record as submitted; the caller becomes its submitter. Requires Bearer token.")
	postRecord.AddSecurity("bearer")
	postRecord.AddReqStructure(trackboard.RecordInput{})
	postRecord.AddRespStructure(trackboard.Record{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
	_ = r.AddOperation(postRecord)

	// PUT /api/records/{id}
	putRecord, _ := r.NewOperationContext(http.MethodPut, "/api/records/{id}")
	putRecord.SetSummary("Edit record")
	putRecord.SetDescription("Replaces a record's fields. Only its submitter or the creator may edit it. Requires Bearer token.")
	putRecord.AddSecurity("bearer")
	putRecord.AddReqStructure(UpdateRecordInput{})
	putRecord.AddRespStructure(trackboard.Record{}, openapi.WithHTTPStatus(http.StatusOK))
	putRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	putRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	putRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(putRecord)

	// DELETE /api/records/{id}
	deleteRecord, _ := r.NewOperationContext(http.MethodDelete, "/api/records/{id}")
	deleteRecord.SetSummary("Delete record")
	deleteRecord.SetDescription("Deletes a record. Only its submitter or the creator may delete it. Requires Bearer token.")
	deleteRecord.AddSecurity("bearer")
	deleteRecord.AddReqStructure(RecordPath{})
	deleteRecord.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	deleteRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	deleteRecord.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteRecord)

	// GET /api/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the user the Bearer token was issued to.")
	getMe.AddSecurity("bearer")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
