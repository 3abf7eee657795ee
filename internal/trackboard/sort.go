package trackboard

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort is the state of a sortable table header.
type Sort struct {
	Column string    `json:"column,omitempty"`
	Order  SortOrder `json:"order,omitempty"`
}

// Toggle returns the state after the user clicks column. A new column sorts
// ascending; clicking the same column cycles ascending, descending, unsorted.
// Columns listed in fixed are not sortable and leave the state unchanged.
func (s Sort) Toggle(column string, fixed ...string) Sort {
	if slices.Contains(fixed, column) {
		return s
	}
	if column != s.Column {
		return Sort{Column: column, Order: SortAsc}
	}
	switch s.Order {
	case SortAsc:
		return Sort{Column: column, Order: SortDesc}
	case SortDesc:
		return Sort{Column: column, Order: SortNone}
	default:
		return Sort{Column: column, Order: SortAsc}
	}
}

// Track table columns.
const (
	ColInternalID     = "internalId"
	ColName           = "name"
	ColTheme          = "theme"
	ColLicense        = "license"
	ColDifficulty     = "difficulty"
	ColLaps           = "laps"
	ColItemMode       = "itemMode"
	ColReleaseDate    = "releaseDate"
	ColTopSavedRecord = "topSavedRecord"
	ColPlayer         = "player"
	ColTopRecordDate  = "topRecordDate"
	ColRecords        = "records"
)

// Record table columns.
const (
	ColRecord  = "record"
	ColDate    = "date"
	ColActions = "actions"
)

// TrackColumns lists the sortable columns of the track table in display
// order; RecordsViewColumns those of the condensed records view.
var (
	TrackColumns       = []string{ColName, ColTheme, ColLicense, ColDifficulty, ColLaps, ColItemMode, ColReleaseDate, ColTopSavedRecord}
	RecordsViewColumns = []string{ColName, ColTheme, ColTopSavedRecord, ColPlayer, ColTopRecordDate}
	FixedTrackColumns  = []string{ColInternalID, ColRecords}
	FixedRecordColumns = []string{ColActions}
)

func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// SortTracks orders tracks in place. Without an order the catalog's list
// order applies. Ties fall back to the track name.
func SortTracks(tracks []TrackOverview, s Sort) {
	if s.Order == SortNone {
		slices.SortStableFunc(tracks, func(a, b TrackOverview) int { return a.ListOrder - b.ListOrder })
		return
	}
	c := newCollator()
	slices.SortStableFunc(tracks, func(a, b TrackOverview) int {
		if s.Order == SortDesc {
			a, b = b, a
		}
		return compareTracks(c, a, b, s.Column)
	})
}

func compareTracks(c *collate.Collator, a, b TrackOverview, column string) int {
	byName := c.CompareString(a.Name, b.Name)
	or := func(n int) int {
		if n != 0 {
			return n
		}
		return byName
	}

	switch column {
	case ColName:
		return byName
	case ColTheme:
		return or(c.CompareString(a.Theme, b.Theme))
	case ColLicense:
		return or(LicenseRank(a.License) - LicenseRank(b.License))
	case ColDifficulty:
		return or(a.Difficulty - b.Difficulty)
	case ColLaps:
		return or(a.Laps - b.Laps)
	case ColItemMode:
		switch {
		case a.ItemMode && !b.ItemMode:
			return -1
		case !a.ItemMode && b.ItemMode:
			return 1
		}
		return byName
	case ColReleaseDate:
		return or(strings.Compare(a.ReleaseDate, b.ReleaseDate))
	case ColTopSavedRecord:
		switch {
		case a.Record == "" && b.Record != "":
			return 1
		case a.Record != "" && b.Record == "":
			return -1
		case a.Record == "" && b.Record == "":
			return byName
		}
		return strings.Compare(a.Record, b.Record)
	case ColPlayer:
		return or(c.CompareString(a.Player, b.Player))
	case ColTopRecordDate:
		return or(strings.Compare(a.TopRecordDate, b.TopRecordDate))
	}
	return 0
}

// SortRecords orders records in place. Without an order records are sorted
// fastest first. Ties fall back to the time. Times and dates are fixed
// width, so they compare bytewise.
func SortRecords(records []Record, s Sort) {
	if s.Order == SortNone {
		slices.SortStableFunc(records, func(a, b Record) int { return strings.Compare(a.Record, b.Record) })
		return
	}
	c := newCollator()
	slices.SortStableFunc(records, func(a, b Record) int {
		if s.Order == SortDesc {
			a, b = b, a
		}
		byRecord := strings.Compare(a.Record, b.Record)
		var n int
		switch s.Column {
		case ColRecord:
			return byRecord
		case ColPlayer:
			n = c.CompareString(a.Player, b.Player)
		case ColDate:
			n = strings.Compare(a.Date, b.Date)
		}
		if n != 0 {
			return n
		}
		return byRecord
	})
}

// Resource table columns.
const (
	ColCreator     = "creator"
	ColLanguage    = "language"
	ColCategory    = "category"
	ColType        = "type"
	ColDescription = "description"
)

var (
	ResourceColumns      = []string{ColName, ColCreator, ColLanguage, ColCategory, ColType}
	FixedResourceColumns = []string{ColDescription}
)

// SortResources orders resources in place, by name when unsorted. Resources
// without a creator sort after those with one.
func SortResources(resources []Resource, s Sort) {
	c := newCollator()
	slices.SortStableFunc(resources, func(a, b Resource) int {
		if s.Order == SortNone {
			return c.CompareString(a.Name, b.Name)
		}
		if s.Order == SortDesc {
			a, b = b, a
		}
		byName := c.CompareString(a.Name, b.Name)
		var n int
		switch s.Column {
		case ColCreator:
			switch {
			case a.Creator == "" && b.Creator != "":
				return 1
			case a.Creator != "" && b.Creator == "":
				return -1
			}
			n = c.CompareString(a.Creator, b.Creator)
		case ColLanguage:
			n = c.CompareString(a.Language, b.Language)
		case ColCategory:
			n = c.CompareString(a.Category, b.Category)
		case ColType:
			n = c.CompareString(a.Type, b.Type)
		}
		if n != 0 {
			return n
		}
		return byName
	})
}
