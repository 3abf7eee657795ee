package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackboard/trackboard/internal/trackboard"
)

type captured struct {
	method, path, auth, body string
}

func newTestClient(t *testing.T, status int, resp string, token string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method, got.path, got.auth, got.body = r.Method, r.URL.EscapedPath(), r.Header.Get("Authorization"), string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, resp)
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL+"/", WithToken(token))
	require.NoError(t, err)
	return c, got
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}

func TestListTracks(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `[{"id":1,"name":"Boo Valley","numberOfRecords":2,"record":"01:02.345"}]`, "")

	tracks, err := c.ListTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Boo Valley", tracks[0].Name)
	assert.Equal(t, "01:02.345", tracks[0].Record)
	assert.Equal(t, 2, tracks[0].NumberOfRecords)
	assert.Equal(t, "GET", got.method)
	assert.Equal(t, "/api/tracks", got.path)
	assert.Empty(t, got.auth)
	assert.False(t, c.HasToken())
}

func TestTrackRecordsEscapesName(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"id":3,"name":"Boo Valley","records":[]}`, "")

	tr, err := c.TrackRecords(context.Background(), "Boo Valley")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tr.ID)
	assert.Equal(t, "/api/tracks/Boo%20Valley", got.path)
}

func TestCreateRecordSendsTokenAndBody(t *testing.T) {
	c, got := newTestClient(t, http.StatusCreated, `{"id":9,"trackId":1,"record":"01:00.000"}`, "tok")

	rec, err := c.CreateRecord(context.Background(), trackboard.RecordInput{TrackID: 1, Record: "01:00.000", Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)
	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "Bearer tok", got.auth)

	var body trackboard.RecordInput
	require.NoError(t, json.Unmarshal([]byte(got.body), &body))
	assert.Equal(t, "01:00.000", body.Record)
}

func TestDeleteRecordNoContent(t *testing.T) {
	c, got := newTestClient(t, http.StatusNoContent, "", "tok")

	require.NoError(t, c.DeleteRecord(context.Background(), 42))
	assert.Equal(t, "DELETE", got.method)
	assert.Equal(t, "/api/records/42", got.path)
}

func TestSetPersonalRecord(t *testing.T) {
	c, got := newTestClient(t, http.StatusOK, `{"trackId":4,"record":"00:59.000","action":"upsert"}`, "tok")

	pr, err := c.SetPersonalRecord(context.Background(), 4, "00:59.000")
	require.NoError(t, err)
	assert.Equal(t, "upsert", pr.Action)
	assert.Equal(t, "PUT", got.method)
	assert.Equal(t, "/api/tracks/4/personal-record", got.path)
	assert.JSONEq(t, `{"record":"00:59.000"}`, got.body)
}

func TestAPIError(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadRequest, `{"error":"invalid record value"}`, "tok")

	_, err := c.SetPersonalRecord(context.Background(), 4, "1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid record value", apiErr.Message)
	assert.Contains(t, err.Error(), "400")
}

func TestAPIErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, `<html>`, "")

	_, err := c.Seasons(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "api: Bad Gateway", err.Error())
}

func TestMe(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"id":"u1","email":"a@b.c","isCreator":true}`, "tok")

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", me.ID)
	assert.True(t, me.IsCreator)
}
