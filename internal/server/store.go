package server

import (
	"context"

	"github.com/trackboard/trackboard/internal/catalog"
	"github.com/trackboard/trackboard/internal/trackboard"
)

// Store is the persistence used by the handlers. Lookups of missing rows
// return trackboard.ErrNotFound.
type Store interface {
	// ListTracks returns every track with its fastest record in list order.
	// When userID is set each track carries that user's personal record.
	ListTracks(ctx context.Context, userID string) ([]trackboard.TrackOverview, error)
	TrackRecords(ctx context.Context, name string) (trackboard.TrackRecords, error)
	Track(ctx context.Context, id int64) (trackboard.Track, error)

	Record(ctx context.Context, id int64) (trackboard.Record, error)
	CreateRecord(ctx context.Context, in trackboard.RecordInput, submittedByID string) (trackboard.Record, error)
	UpdateRecord(ctx context.Context, id int64, in trackboard.RecordInput) (trackboard.Record, error)
	DeleteRecord(ctx context.Context, id int64) error

	// PersonalRecord returns "" when the user has none on the track.
	PersonalRecord(ctx context.Context, userID string, trackID int64) (string, error)
	UpsertPersonalRecord(ctx context.Context, userID string, trackID int64, record string) (trackboard.PersonalRecord, error)
	DeletePersonalRecord(ctx context.Context, userID string, trackID int64) error

	Seasons(ctx context.Context) ([]trackboard.Season, error)
	Countries(ctx context.Context) ([]trackboard.Country, error)
	Resources(ctx context.Context) ([]trackboard.Resource, error)

	// SeedCatalog loads c into an empty database. It reports whether
	// anything was written.
	SeedCatalog(ctx context.Context, c *catalog.Catalog) (bool, error)
}
