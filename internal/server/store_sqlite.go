package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/trackboard/trackboard/internal/catalog"
	"github.com/trackboard/trackboard/internal/trackboard"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const trackColumns = `t.id, t.internal_id, t.list_order, t.name, t.theme, t.license,
	t.difficulty, t.laps, t.item_mode, t.release_date`

const recordColumns = `id, track_id, record, date, player, video, region, kart,
	racer, control_type, submitted_by_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// dateColumn scans a YYYY-MM-DD column into a string. The libSQL driver hands
// such TEXT values back as time.Time, which database/sql would otherwise
// render as RFC3339. Values that are not dates are kept as stored.
type dateColumn struct {
	dst *string
}

func (c dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c.dst = ""
	case time.Time:
		*c.dst = v.UTC().Format(time.DateOnly)
	case string:
		*c.dst = normalizeDate(v)
	case []byte:
		*c.dst = normalizeDate(string(v))
	default:
		return fmt.Errorf("scanning date: unsupported type %T", src)
	}
	return nil
}

func normalizeDate(s string) string {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	return s
}

func scanTrack(s scanner, t *trackboard.Track, extra ...any) error {
	dest := append([]any{
		&t.ID, &t.InternalID, &t.ListOrder, &t.Name, &t.Theme, &t.License,
		&t.Difficulty, &t.Laps, &t.ItemMode, dateColumn{&t.ReleaseDate},
	}, extra...)
	return s.Scan(dest...)
}

func scanRecord(s scanner) (trackboard.Record, error) {
	var r trackboard.Record
	err := s.Scan(&r.ID, &r.TrackID, &r.Record, dateColumn{&r.Date}, &r.Player, &r.Video, &r.Region,
		&r.Kart, &r.Racer, &r.ControlType, &r.SubmittedByID, &r.CreatedAt)
	return r, err
}

func (s *SQLiteStore) ListTracks(ctx context.Context, userID string) ([]trackboard.TrackOverview, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH ranked AS (
			SELECT track_id, record, player, video, date,
				ROW_NUMBER() OVER (PARTITION BY track_id ORDER BY record, id) AS rn,
				COUNT(*) OVER (PARTITION BY track_id) AS n
			FROM records
		)
		SELECT `+trackColumns+`,
			COALESCE(r.record, ''), COALESCE(r.player, ''), COALESCE(r.video, ''),
			COALESCE(r.date, ''), COALESCE(r.n, 0), COALESCE(pr.record, '')
		FROM tracks t
		LEFT JOIN ranked r ON r.track_id = t.id AND r.rn = 1
		LEFT JOIN personal_records pr ON pr.track_id = t.id AND pr.user_id = ?
		ORDER BY t.list_order, t.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	defer rows.Close()

	tracks := []trackboard.TrackOverview{}
	for rows.Next() {
		var o trackboard.TrackOverview
		if err := scanTrack(rows, &o.Track,
			&o.Record, &o.Player, &o.Video, dateColumn{&o.TopRecordDate}, &o.NumberOfRecords, &o.PersonalRecord,
		); err != nil {
			return nil, fmt.Errorf("scanning track: %w", err)
		}
		tracks = append(tracks, o)
	}
	return tracks, rows.Err()
}

func (s *SQLiteStore) Track(ctx context.Context, id int64) (trackboard.Track, error) {
	var t trackboard.Track
	err := scanTrack(s.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks t WHERE t.id = ?`, id), &t)
	if errors.Is(err, sql.ErrNoRows) {
		return t, trackboard.ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) TrackRecords(ctx context.Context, name string) (trackboard.TrackRecords, error) {
	var tr trackboard.TrackRecords
	err := s.db.QueryRowContext(ctx, `
		SELECT id, internal_id, name FROM tracks WHERE name = ? COLLATE NOCASE
	`, name).Scan(&tr.ID, &tr.InternalID, &tr.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return tr, trackboard.ErrNotFound
	}
	if err != nil {
		return tr, fmt.Errorf("looking up track: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records WHERE track_id = ? ORDER BY record, id
	`, tr.ID)
	if err != nil {
		return tr, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	tr.Records = []trackboard.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return tr, fmt.Errorf("scanning record: %w", err)
		}
		tr.Records = append(tr.Records, r)
	}
	return tr, rows.Err()
}

func (s *SQLiteStore) Record(ctx context.Context, id int64) (trackboard.Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return r, trackboard.ErrNotFound
	}
	return r, err
}

func (s *SQLiteStore) CreateRecord(ctx context.Context, in trackboard.RecordInput, submittedByID string) (trackboard.Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, `
		INSERT INTO records (track_id, record, date, player, video, region, kart, racer, control_type, submitted_by_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+recordColumns,
		in.TrackID, in.Record, in.Date, in.Player, in.Video, in.Region, in.Kart, in.Racer, in.ControlType, submittedByID,
	))
	if err != nil {
		return r, fmt.Errorf("inserting record: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) UpdateRecord(ctx context.Context, id int64, in trackboard.RecordInput) (trackboard.Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, `
		UPDATE records
		SET record = ?, date = ?, player = ?, video = ?, region = ?, kart = ?, racer = ?, control_type = ?
		WHERE id = ?
		RETURNING `+recordColumns,
		in.Record, in.Date, in.Player, in.Video, in.Region, in.Kart, in.Racer, in.ControlType, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return r, trackboard.ErrNotFound
	}
	if err != nil {
		return r, fmt.Errorf("updating record: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return trackboard.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) PersonalRecord(ctx context.Context, userID string, trackID int64) (string, error) {
	var rec string
	err := s.db.QueryRowContext(ctx, `
		SELECT record FROM personal_records WHERE user_id = ? AND track_id = ?
	`, userID, trackID).Scan(&rec)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return rec, err
}

func (s *SQLiteStore) UpsertPersonalRecord(ctx context.Context, userID string, trackID int64, record string) (trackboard.PersonalRecord, error) {
	pr := trackboard.PersonalRecord{UserID: userID, TrackID: trackID, Record: record}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO personal_records (user_id, track_id, record)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, track_id) DO UPDATE
		SET record = excluded.record, modified_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		RETURNING modified_at
	`, userID, trackID, record).Scan(&pr.ModifiedAt)
	if err != nil {
		return pr, fmt.Errorf("saving personal record: %w", err)
	}
	return pr, nil
}

func (s *SQLiteStore) DeletePersonalRecord(ctx context.Context, userID string, trackID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM personal_records WHERE user_id = ? AND track_id = ?
	`, userID, trackID)
	if err != nil {
		return fmt.Errorf("deleting personal record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Seasons(ctx context.Context) ([]trackboard.Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, description FROM seasons ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("listing seasons: %w", err)
	}
	defer rows.Close()

	out := []trackboard.Season{}
	for rows.Next() {
		var se trackboard.Season
		if err := rows.Scan(dateColumn{&se.Date}, &se.Description); err != nil {
			return nil, err
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Countries(ctx context.Context) ([]trackboard.Country, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM countries ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	defer rows.Close()

	out := []trackboard.Country{}
	for rows.Next() {
		var c trackboard.Country
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Resources(ctx context.Context) ([]trackboard.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, creator, language, category, type, description, url
		FROM resources ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	out := []trackboard.Resource{}
	for rows.Next() {
		var r trackboard.Resource
		if err := rows.Scan(&r.Name, &r.Creator, &r.Language, &r.Category, &r.Type, &r.Description, &r.URL); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SeedCatalog(ctx context.Context, c *catalog.Catalog) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, t := range c.TrackList() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (internal_id, list_order, name, theme, license, difficulty, laps, item_mode, release_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.InternalID, t.ListOrder, t.Name, t.Theme, t.License, t.Difficulty, t.Laps, t.ItemMode, t.ReleaseDate); err != nil {
			return false, fmt.Errorf("seeding track %q: %w", t.Name, err)
		}
	}
	for _, se := range c.Seasons {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO seasons (date, description) VALUES (?, ?)
		`, se.Date, se.Description); err != nil {
			return false, fmt.Errorf("seeding season %s: %w", se.Date, err)
		}
	}
	for _, co := range c.Countries {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO countries (code, name) VALUES (?, ?)
		`, co.Code, co.Name); err != nil {
			return false, fmt.Errorf("seeding country %s: %w", co.Code, err)
		}
	}
	for _, r := range c.Resources {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO resources (name, creator, language, category, type, description, url)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.Name, r.Creator, r.Language, r.Category, r.Type, r.Description, r.URL); err != nil {
			return false, fmt.Errorf("seeding resource %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
