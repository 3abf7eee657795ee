// Package catalog holds the seed data a fresh trackboard database starts
// with: the track list, season start dates, countries and resources.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/trackboard/trackboard/internal/trackboard"
)

//go:embed catalog.yaml
var embedded []byte

// Track is a catalog entry. Its position in the file is its list order.
type Track struct {
	Name        string `yaml:"name"`
	InternalID  string `yaml:"internal_id"`
	Theme       string `yaml:"theme"`
	License     string `yaml:"license"`
	Difficulty  int    `yaml:"difficulty"`
	Laps        int    `yaml:"laps"`
	ItemMode    bool   `yaml:"item_mode"`
	ReleaseDate string `yaml:"release_date"`
}

type Catalog struct {
	Tracks    []Track               `yaml:"tracks"`
	Seasons   []trackboard.Season   `yaml:"seasons"`
	Countries []trackboard.Country  `yaml:"countries"`
	Resources []trackboard.Resource `yaml:"resources"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(embedded))
}

// Parse decodes and validates a catalog. Unknown fields are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that track names are unique, licenses and difficulties
// are in range, and seasons are ordered by start date.
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Tracks))
	for i, t := range c.Tracks {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("track %d: missing name", i))
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("track %q: duplicate name", t.Name))
		}
		seen[t.Name] = true
		if trackboard.LicenseRank(t.License) < 0 {
			errs = append(errs, fmt.Errorf("track %q: unknown license %q", t.Name, t.License))
		}
		if t.Difficulty < 1 || t.Difficulty > 5 {
			errs = append(errs, fmt.Errorf("track %q: difficulty %d out of range", t.Name, t.Difficulty))
		}
	}
	if !slices.IsSortedFunc(c.Seasons, func(a, b trackboard.Season) int {
		switch {
		case a.Date < b.Date:
			return -1
		case a.Date > b.Date:
			return 1
		}
		return 0
	}) {
		errs = append(errs, errors.New("seasons are not ordered by date"))
	}
	return errors.Join(errs...)
}

// TrackList converts the catalog tracks to domain tracks with their list
// order set.
func (c *Catalog) TrackList() []trackboard.Track {
	out := make([]trackboard.Track, len(c.Tracks))
	for i, t := range c.Tracks {
		out[i] = trackboard.Track{
			InternalID:  t.InternalID,
			ListOrder:   i + 1,
			Name:        t.Name,
			Theme:       t.Theme,
			License:     t.License,
			Difficulty:  t.Difficulty,
			Laps:        t.Laps,
			ItemMode:    t.ItemMode,
			ReleaseDate: t.ReleaseDate,
		}
	}
	return out
}
