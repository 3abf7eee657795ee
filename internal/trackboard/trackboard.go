// Package trackboard defines the core domain types of the track catalog and
// leaderboard, plus the ordering and filtering rules shared by the API and
// its clients.
package trackboard

import (
	"errors"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// Licenses in ascending order of difficulty.
var Licenses = []string{"None", "B3", "B2", "B1", "L3", "L2", "L1", "Pro"}

// LicenseRank returns the position of license in Licenses, or -1.
func LicenseRank(license string) int {
	for i, l := range Licenses {
		if l == license {
			return i
		}
	}
	return -1
}

// EarliestRecordDate is the first day of pre-season; records set before it
// are not valid.
const EarliestRecordDate = "2023-01-11"

// DefaultPlayer is stored when a submitter does not know who set a record.
const DefaultPlayer = "???"

// Control types offered by the record form. Anything else is free text
// entered under ControlOther.
const (
	ControlKeyboard    = "Keyboard"
	ControlController  = "Controller"
	ControlTouchScreen = "Touch Screen"
	ControlOther       = "Other"
)

var ControlTypes = []string{ControlKeyboard, ControlController, ControlTouchScreen, ControlOther}

type Track struct {
	ID          int64  `json:"id"`
	InternalID  string `json:"internalId,omitempty"`
	ListOrder   int    `json:"listOrder"`
	Name        string `json:"name"`
	Theme       string `json:"theme"`
	License     string `json:"license"`
	Difficulty  int    `json:"difficulty"`
	Laps        int    `json:"laps"`
	ItemMode    bool   `json:"itemMode"`
	ReleaseDate string `json:"releaseDate"`
}

// TrackOverview is a track with its fastest record, the number of records,
// and the requesting user's personal record when there is one.
type TrackOverview struct {
	Track
	Record          string `json:"record,omitempty"`
	Player          string `json:"player,omitempty"`
	Video           string `json:"video,omitempty"`
	TopRecordDate   string `json:"topRecordDate,omitempty"`
	NumberOfRecords int    `json:"numberOfRecords"`
	PersonalRecord  string `json:"personalRecord,omitempty"`
}

// TrackRecords is a track with all its records, fastest first.
type TrackRecords struct {
	ID         int64    `json:"id"`
	InternalID string   `json:"internalId,omitempty"`
	Name       string   `json:"name"`
	Records    []Record `json:"records"`
}

type Record struct {
	ID            int64  `json:"id"`
	TrackID       int64  `json:"trackId"`
	Record        string `json:"record"`
	Date          string `json:"date"`
	Player        string `json:"player"`
	Video         string `json:"video,omitempty"`
	Region        string `json:"region,omitempty"`
	Kart          string `json:"kart,omitempty"`
	Racer         string `json:"racer,omitempty"`
	ControlType   string `json:"controlType,omitempty"`
	SubmittedByID string `json:"submittedById,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// RecordInput is the body of a record submission or edit.
type RecordInput struct {
	TrackID     int64  `json:"trackId"`
	Record      string `json:"record"`
	Date        string `json:"date"`
	Player      string `json:"player"`
	Video       string `json:"video,omitempty"`
	Region      string `json:"region,omitempty"`
	Kart        string `json:"kart,omitempty"`
	Racer       string `json:"racer,omitempty"`
	ControlType string `json:"controlType,omitempty"`
}

// Normalize trims every field and fills the defaults a submission form
// applies: an unknown player becomes DefaultPlayer.
func (in *RecordInput) Normalize() {
	in.Record = strings.TrimSpace(in.Record)
	in.Date = strings.TrimSpace(in.Date)
	in.Player = strings.TrimSpace(in.Player)
	in.Video = strings.TrimSpace(in.Video)
	in.Region = strings.TrimSpace(in.Region)
	in.Kart = strings.TrimSpace(in.Kart)
	in.Racer = strings.TrimSpace(in.Racer)
	in.ControlType = strings.TrimSpace(in.ControlType)
	if in.Player == "" {
		in.Player = DefaultPlayer
	}
}

type PersonalRecord struct {
	UserID     string `json:"userId"`
	TrackID    int64  `json:"trackId"`
	Record     string `json:"record"`
	ModifiedAt string `json:"modifiedAt"`
}

type Season struct {
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}

type Country struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// AllCountries is the pseudo-country used for global leaderboards. It is
// not a valid record region.
const AllCountries = "ALL"

type Resource struct {
	Name        string `json:"name" yaml:"name"`
	Creator     string `json:"creator" yaml:"creator"`
	Language    string `json:"language" yaml:"language"`
	Category    string `json:"category" yaml:"category"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
