package trackboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterTracks(t *testing.T) {
	tracks := []TrackOverview{
		{Track: Track{Name: "Boo Valley", Theme: "Ghost", ItemMode: false}},
		{Track: Track{Name: "Cogwheel Crush", Theme: "Factory", ItemMode: true}},
		{Track: Track{Name: "Ghostly Ruins", Theme: "Ruins", ItemMode: true}},
		{Track: Track{Name: "Magma Cavern", Theme: "Volcano", ItemMode: true}},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"Boo Valley", "Cogwheel Crush", "Ghostly Ruins", "Magma Cavern"}},
		{"search name or theme", Filter{Search: "GHOST"}, []string{"Boo Valley", "Ghostly Ruins"}},
		{"search trims", Filter{Search: "  cavern "}, []string{"Magma Cavern"}},
		{"speed grand prix", Filter{SpeedGrandPrix: true}, []string{"Boo Valley", "Cogwheel Crush", "Magma Cavern"}},
		{"both", Filter{Search: "ghost", SpeedGrandPrix: true}, []string{"Boo Valley"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterTracks(tracks, tt.filter)))
		})
	}
}

func TestSeasonFor(t *testing.T) {
	seasons := []Season{
		{Date: "2023-01-11", Description: "Pre-season"},
		{Date: "2023-03-08", Description: "Season 1"},
		{Date: "2023-05-03", Description: "Season 2"},
	}

	tests := []struct {
		date string
		want int
	}{
		{"2023-01-10", -1},
		{"2023-01-11", 0},
		{"2023-03-07", 0},
		{"2023-03-08", 1},
		{"2023-04-30", 1},
		{"2023-05-03", 2},
		{"2026-01-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonFor(seasons, tt.date))
		})
	}

	assert.Equal(t, -1, SeasonFor(nil, "2024-01-01"))
}

func TestVideoHost(t *testing.T) {
	tests := map[string]string{
		"":                                     "",
		"https://www.youtube.com/watch?v=abc":  VideoYouTube,
		"https://youtu.be/abc":                 VideoYouTube,
		"https://www.bilibili.com/video/BV1xx": VideoBilibili,
		"https://b23.tv/xyz":                   VideoBilibili,
		"https://streamable.com/abc":           VideoOther,
		"not a url":                            VideoOther,
	}
	for link, want := range tests {
		assert.Equal(t, want, VideoHost(link), link)
	}
}

func TestDecidePersonalRecord(t *testing.T) {
	tests := []struct {
		name    string
		current string
		value   string
		want    PersonalRecordAction
	}{
		{"unchanged", "01:02.345", "01:02.345", PRUnchanged},
		{"new record", "", "01:02.345", PRUpsert},
		{"replace", "01:02.345", "01:01.000", PRUpsert},
		{"cleared", "01:02.345", "", PRDelete},
		{"placeholder clears", "01:02.345", "--:--.---", PRDelete},
		{"nothing to clear", "", "--:--.---", PRUnchanged},
		{"incomplete", "01:02.345", "01:02", PRInvalid},
		{"incomplete without record", "", "1", PRInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecidePersonalRecord(tt.current, tt.value)
			assert.Equal(t, tt.want, got, got.String())
		})
	}
}

func TestRecordInputNormalize(t *testing.T) {
	in := RecordInput{Record: " 01:02.345 ", Player: "  ", ControlType: " Keyboard"}
	in.Normalize()
	assert.Equal(t, "01:02.345", in.Record)
	assert.Equal(t, DefaultPlayer, in.Player)
	assert.Equal(t, ControlKeyboard, in.ControlType)
}

