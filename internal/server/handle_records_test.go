package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/trackboard/trackboard/internal/trackboard"
)

func TestCreateRecordRequiresAuth(t *testing.T) {
	e := setupEnv(t)
	id := e.trackID(t, "Brodi Rally")

	rec := e.do(t, http.MethodPost, "/api/records", "", trackboard.RecordInput{TrackID: id, Record: "01:00.000"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateRecordUnknownTrack(t *testing.T) {
	e := setupEnv(t)
	rec := e.do(t, http.MethodPost, "/api/records", e.token(t, newUser()), trackboard.RecordInput{TrackID: 9999, Record: "01:00.000"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateRecordStoresContentsAsGiven(t *testing.T) {
	e := setupEnv(t)
	id := e.trackID(t, "Brodi Rally")

	// Contents are the form's responsibility; the API stores what it gets.
	got := e.createRecord(t, e.token(t, newUser()), trackboard.RecordInput{
		TrackID: id, Record: "1:2", Date: "yesterday", Region: "ALL", ControlType: "Steering wheel",
	})
	if got.Record != "1:2" || got.Date != "yesterday" || got.ControlType != "Steering wheel" {
		t.Errorf("stored record = %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("CreatedAt not set")
	}
}

func TestRecordDatesRoundTripAsGiven(t *testing.T) {
	e := setupEnv(t)
	id := e.trackID(t, "Brodi Rally")
	tok := e.token(t, newUser())

	created := e.createRecord(t, tok, trackboard.RecordInput{TrackID: id, Record: "01:00.000", Date: "2024-03-01"})
	if created.Date != "2024-03-01" {
		t.Errorf("created date = %q, want 2024-03-01", created.Date)
	}

	var updated trackboard.Record
	path := fmt.Sprintf("/api/records/%d", created.ID)
	rec := e.do(t, http.MethodPut, path, tok, trackboard.RecordInput{Record: "00:59.000", Date: "2024-04-15"}, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if updated.Date != "2024-04-15" {
		t.Errorf("updated date = %q, want 2024-04-15", updated.Date)
	}

	stored, err := e.store.Record(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Date != "2024-04-15" {
		t.Errorf("stored date = %q, want 2024-04-15", stored.Date)
	}
}

func TestRecordOwnership(t *testing.T) {
	e := setupEnv(t)
	id := e.trackID(t, "Village Rooftops")
	owner, other := newUser(), newUser()

	r := e.createRecord(t, e.token(t, owner), trackboard.RecordInput{TrackID: id, Record: "01:10.000", Player: "owner"})
	path := fmt.Sprintf("/api/records/%d", r.ID)
	edit := trackboard.RecordInput{Record: "01:09.500", Player: "owner", Date: "2024-05-01"}

	tests := []struct {
		name string
		user trackboard.User
		want int
	}{
		{"other user", other, http.StatusForbidden},
		{"submitter", owner, http.StatusOK},
		{"creator", e.creator, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPut, path, e.token(t, tt.user), edit, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	stored, err := e.store.Record(t.Context(), r.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Record != "01:09.500" || stored.SubmittedByID != owner.ID {
		t.Errorf("stored = %+v", stored)
	}

	if rec := e.do(t, http.MethodDelete, path, e.token(t, other), nil, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("delete by other: status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, path, e.token(t, owner), nil, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete by owner: status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodDelete, path, e.token(t, owner), nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d", rec.Code)
	}
}

func TestUpdateRecordBadID(t *testing.T) {
	e := setupEnv(t)
	rec := e.do(t, http.MethodPut, "/api/records/abc", e.token(t, newUser()), trackboard.RecordInput{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRecordChangesArePublished(t *testing.T) {
	e := setupEnv(t)
	id := e.trackID(t, "Cemetery Rapids")

	ch := e.broker.Subscribe(id)
	defer e.broker.Unsubscribe(id, ch)

	r := e.createRecord(t, e.token(t, newUser()), trackboard.RecordInput{TrackID: id, Record: "00:58.120", Player: "amy"})

	select {
	case data := <-ch:
		var ev TrackEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		want := TrackEvent{Type: EventRecordCreated, TrackID: id, RecordID: r.ID, Record: "00:58.120", Player: "amy"}
		if ev != want {
			t.Errorf("event = %+v, want %+v", ev, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestWriteRateLimit(t *testing.T) {
	e := setupEnv(t, func(d *Deps) {
		d.WriteRateLimit = 1
		d.WriteRateWindow = time.Minute
	})
	id := e.trackID(t, "Brodi Rally")
	tok := e.token(t, newUser())
	in := trackboard.RecordInput{TrackID: id, Record: "01:00.000"}

	if rec := e.do(t, http.MethodPost, "/api/records", tok, in, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first write: status = %d", rec.Code)
	}
	if rec := e.do(t, http.MethodPost, "/api/records", tok, in, nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second write: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// Reads are not limited.
	if rec := e.do(t, http.MethodGet, "/api/tracks", "", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("read: status = %d", rec.Code)
	}
}
