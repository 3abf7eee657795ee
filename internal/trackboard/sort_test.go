package trackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(tracks []TrackOverview) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.Name
	}
	return out
}

func overview(name string, mod func(*TrackOverview)) TrackOverview {
	t := TrackOverview{Track: Track{Name: name}}
	if mod != nil {
		mod(&t)
	}
	return t
}

func TestSortToggleCycle(t *testing.T) {
	var s Sort

	s = s.Toggle(ColName)
	assert.Equal(t, Sort{Column: ColName, Order: SortAsc}, s)
	s = s.Toggle(ColName)
	assert.Equal(t, Sort{Column: ColName, Order: SortDesc}, s)
	s = s.Toggle(ColName)
	assert.Equal(t, Sort{Column: ColName, Order: SortNone}, s)
	s = s.Toggle(ColName)
	assert.Equal(t, Sort{Column: ColName, Order: SortAsc}, s)

	s = s.Toggle(ColName).Toggle(ColLaps)
	assert.Equal(t, Sort{Column: ColLaps, Order: SortAsc}, s)
}

func TestSortToggleIgnoresFixedColumns(t *testing.T) {
	s := Sort{Column: ColName, Order: SortDesc}
	assert.Equal(t, s, s.Toggle(ColRecords, FixedTrackColumns...))
	assert.Equal(t, s, s.Toggle(ColInternalID, FixedTrackColumns...))
}

func TestLicenseRank(t *testing.T) {
	for i := 1; i < len(Licenses); i++ {
		assert.Less(t, LicenseRank(Licenses[i-1]), LicenseRank(Licenses[i]))
	}
	assert.Equal(t, -1, LicenseRank("S"))
}

func TestSortTracks(t *testing.T) {
	base := func() []TrackOverview {
		return []TrackOverview{
			overview("Mother Lode", func(t *TrackOverview) {
				t.ListOrder, t.License, t.Laps, t.ItemMode, t.Record = 3, "Pro", 2, true, "01:10.000"
			}),
			overview("Boo Valley", func(t *TrackOverview) {
				t.ListOrder, t.License, t.Laps = 1, "B3", 3
			}),
			overview("Alpine Rush", func(t *TrackOverview) {
				t.ListOrder, t.License, t.Laps, t.Record = 2, "L1", 3, "00:59.999"
			}),
			overview("Cogwheel Crush", func(t *TrackOverview) {
				t.ListOrder, t.License, t.Laps, t.ItemMode = 4, "B3", 2, true
			}),
		}
	}

	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"list order", Sort{}, []string{"Boo Valley", "Alpine Rush", "Mother Lode", "Cogwheel Crush"}},
		{"name asc", Sort{ColName, SortAsc}, []string{"Alpine Rush", "Boo Valley", "Cogwheel Crush", "Mother Lode"}},
		{"name desc", Sort{ColName, SortDesc}, []string{"Mother Lode", "Cogwheel Crush", "Boo Valley", "Alpine Rush"}},
		{"license then name", Sort{ColLicense, SortAsc}, []string{"Boo Valley", "Cogwheel Crush", "Alpine Rush", "Mother Lode"}},
		{"laps then name", Sort{ColLaps, SortAsc}, []string{"Cogwheel Crush", "Mother Lode", "Alpine Rush", "Boo Valley"}},
		{"item mode first", Sort{ColItemMode, SortAsc}, []string{"Cogwheel Crush", "Mother Lode", "Alpine Rush", "Boo Valley"}},
		{"missing records last", Sort{ColTopSavedRecord, SortAsc}, []string{"Alpine Rush", "Mother Lode", "Boo Valley", "Cogwheel Crush"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := base()
			SortTracks(tracks, tt.sort)
			assert.Equal(t, tt.want, names(tracks))
		})
	}
}

func TestSortRecords(t *testing.T) {
	base := func() []Record {
		return []Record{
			{ID: 1, Record: "01:02.000", Player: "zed", Date: "2024-01-01"},
			{ID: 2, Record: "01:00.500", Player: "amy", Date: "2024-03-01"},
			{ID: 3, Record: "01:01.000", Player: "amy", Date: "2024-01-01"},
		}
	}
	ids := func(rs []Record) []int64 {
		out := make([]int64, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	tests := []struct {
		name string
		sort Sort
		want []int64
	}{
		{"default fastest first", Sort{}, []int64{2, 3, 1}},
		{"record desc", Sort{ColRecord, SortDesc}, []int64{1, 3, 2}},
		{"player ties by record", Sort{ColPlayer, SortAsc}, []int64{2, 3, 1}},
		{"date ties by record", Sort{ColDate, SortAsc}, []int64{3, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := base()
			SortRecords(rs, tt.sort)
			assert.Equal(t, tt.want, ids(rs))
		})
	}
}

func TestSortResources(t *testing.T) {
	base := func() []Resource {
		return []Resource{
			{Name: "Racing lines", Creator: "", Language: "English"},
			{Name: "Drift guide", Creator: "kai", Language: "Japanese"},
			{Name: "Boost chart", Creator: "amy", Language: "English"},
		}
	}
	resNames := func(rs []Resource) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Name
		}
		return out
	}

	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{"default by name", Sort{}, []string{"Boost chart", "Drift guide", "Racing lines"}},
		{"creator missing last", Sort{ColCreator, SortAsc}, []string{"Boost chart", "Drift guide", "Racing lines"}},
		{"language then name", Sort{ColLanguage, SortAsc}, []string{"Boost chart", "Racing lines", "Drift guide"}},
		{"language desc", Sort{ColLanguage, SortDesc}, []string{"Drift guide", "Racing lines", "Boost chart"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := base()
			SortResources(rs, tt.sort)
			assert.Equal(t, tt.want, resNames(rs))
		})
	}
}
