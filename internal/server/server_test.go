package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/trackboard/trackboard/internal/catalog"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/migrations"
	"github.com/trackboard/trackboard/internal/trackboard"
)

const testSecret = "test-secret-test-secret-test-secret"

type testEnv struct {
	handler http.Handler
	store   *SQLiteStore
	auth    *Authenticator
	broker  *Broker
	catalog *catalog.Catalog
	creator trackboard.User
}

func setupEnv(t *testing.T, mod ...func(*Deps)) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store := NewSQLiteStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := SeedCatalog(ctx, logger, store, cat); err != nil {
		t.Fatalf("seed: %v", err)
	}

	creator := trackboard.User{ID: uuid.NewString(), Email: "creator@example.com"}
	auth, err := NewAuthenticator(testSecret, creator.ID)
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}

	deps := Deps{
		Logger: logger,
		Store:  store,
		Auth:   auth,
		Broker: NewBroker(),
	}
	for _, m := range mod {
		m(&deps)
	}

	return &testEnv{
		handler: NewHandler(deps),
		store:   store,
		auth:    auth,
		broker:  deps.Broker,
		catalog: cat,
		creator: creator,
	}
}

func (e *testEnv) token(t *testing.T, u trackboard.User) string {
	t.Helper()
	tok, err := e.auth.Issue(u, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func newUser() trackboard.User {
	return trackboard.User{ID: uuid.NewString()}
}

// do sends a request and decodes a JSON response into out when out is set.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v (body %s)", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func (e *testEnv) trackID(t *testing.T, name string) int64 {
	t.Helper()
	var tr trackboard.TrackRecords
	rec := e.do(t, http.MethodGet, "/api/tracks/"+url.PathEscape(name), "", nil, &tr)
	if rec.Code != http.StatusOK {
		t.Fatalf("track %q: status %d", name, rec.Code)
	}
	return tr.ID
}

func (e *testEnv) createRecord(t *testing.T, token string, in trackboard.RecordInput) trackboard.Record {
	t.Helper()
	var out trackboard.Record
	rec := e.do(t, http.MethodPost, "/api/records", token, in, &out)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create record: status %d, body %s", rec.Code, rec.Body.String())
	}
	return out
}
