// Package client is a typed HTTP client for the trackboard API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/trackboard/trackboard/internal/trackboard"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// PersonalRecord is the result of saving a personal record.
type PersonalRecord struct {
	TrackID    int64  `json:"trackId"`
	Record     string `json:"record"`
	ModifiedAt string `json:"modifiedAt,omitempty"`
	Action     string `json:"action"`
}

// Me describes the authenticated caller.
type Me struct {
	trackboard.User
	IsCreator bool `json:"isCreator"`
}

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

type Option func(*Client)

// WithToken sends token as a Bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 15 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool { return c.token != "" }

func (c *Client) ListTracks(ctx context.Context) ([]trackboard.TrackOverview, error) {
	var out []trackboard.TrackOverview
	return out, c.do(ctx, http.MethodGet, "/api/tracks", nil, &out)
}

// TrackRecords returns the records of the track called name.
func (c *Client) TrackRecords(ctx context.Context, name string) (trackboard.TrackRecords, error) {
	var out trackboard.TrackRecords
	return out, c.do(ctx, http.MethodGet, "/api/tracks/"+url.PathEscape(name), nil, &out)
}

func (c *Client) CreateRecord(ctx context.Context, in trackboard.RecordInput) (trackboard.Record, error) {
	var out trackboard.Record
	return out, c.do(ctx, http.MethodPost, "/api/records", in, &out)
}

func (c *Client) UpdateRecord(ctx context.Context, id int64, in trackboard.RecordInput) (trackboard.Record, error) {
	var out trackboard.Record
	return out, c.do(ctx, http.MethodPut, "/api/records/"+strconv.FormatInt(id, 10), in, &out)
}

func (c *Client) DeleteRecord(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/records/"+strconv.FormatInt(id, 10), nil, nil)
}

// SetPersonalRecord saves value as the caller's personal record on a track.
// An empty value or the placeholder clears it.
func (c *Client) SetPersonalRecord(ctx context.Context, trackID int64, value string) (PersonalRecord, error) {
	var out PersonalRecord
	body := struct {
		Record string `json:"record"`
	}{value}
	path := "/api/tracks/" + strconv.FormatInt(trackID, 10) + "/personal-record"
	return out, c.do(ctx, http.MethodPut, path, body, &out)
}

func (c *Client) Seasons(ctx context.Context) ([]trackboard.Season, error) {
	var out []trackboard.Season
	return out, c.do(ctx, http.MethodGet, "/api/seasons", nil, &out)
}

func (c *Client) Countries(ctx context.Context) ([]trackboard.Country, error) {
	var out []trackboard.Country
	return out, c.do(ctx, http.MethodGet, "/api/countries", nil, &out)
}

func (c *Client) Resources(ctx context.Context) ([]trackboard.Resource, error) {
	var out []trackboard.Resource
	return out, c.do(ctx, http.MethodGet, "/api/resources", nil, &out)
}

func (c *Client) Me(ctx context.Context) (Me, error) {
	var out Me
	return out, c.do(ctx, http.MethodGet, "/api/me", nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}
