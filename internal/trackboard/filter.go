package trackboard

import (
	"net/url"
	"slices"
	"strings"

	"github.com/trackboard/trackboard/internal/timemask"
)

// SpeedGrandPrixExceptions are item-mode tracks that still run in the speed
// grand prix.
var SpeedGrandPrixExceptions = []string{"Cogwheel Crush", "Magma Cavern", "Mother Lode"}

// Filter selects tracks for a listing.
type Filter struct {
	// Search matches a case-insensitive substring of the name or theme.
	Search string
	// SpeedGrandPrix keeps only tracks raced in the speed grand prix.
	SpeedGrandPrix bool
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Track) bool {
	if f.SpeedGrandPrix && t.ItemMode && !slices.Contains(SpeedGrandPrixExceptions, t.Name) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Theme), q)
}

// FilterTracks returns the tracks that pass f, keeping their order.
func FilterTracks(tracks []TrackOverview, f Filter) []TrackOverview {
	out := make([]TrackOverview, 0, len(tracks))
	for _, t := range tracks {
		if f.Match(t.Track) {
			out = append(out, t)
		}
	}
	return out
}

// SeasonFor returns the index of the season running on date, that is the
// last season starting on or before it. Seasons must be ordered by start
// date. A date after every start belongs to the last season; a date before
// the first returns -1.
func SeasonFor(seasons []Season, date string) int {
	i := slices.IndexFunc(seasons, func(s Season) bool { return s.Date > date })
	if i < 0 {
		return len(seasons) - 1
	}
	return i - 1
}

// Video hosts recognised by the record list.
const (
	VideoYouTube  = "youtube"
	VideoBilibili = "bilibili"
	VideoOther    = "other"
)

// VideoHost classifies a record's video link. An empty link returns "".
func VideoHost(link string) string {
	if strings.TrimSpace(link) == "" {
		return ""
	}
	host := link
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "youtube") || strings.Contains(host, "youtu.be"):
		return VideoYouTube
	case strings.Contains(host, "bilibili") || strings.Contains(host, "b23.tv"):
		return VideoBilibili
	}
	return VideoOther
}

// PersonalRecordAction is what saving a personal-record cell does.
type PersonalRecordAction int

const (
	PRUnchanged PersonalRecordAction = iota
	PRDelete
	PRUpsert
	PRInvalid
)

func (a PersonalRecordAction) String() string {
	switch a {
	case PRUnchanged:
		return "unchanged"
	case PRDelete:
		return "delete"
	case PRUpsert:
		return "upsert"
	case PRInvalid:
		return "invalid"
	}
	return "unknown"
}

// DecidePersonalRecord maps an edited personal-record value to an action.
// current is the stored record, "" when there is none. An empty value or the
// placeholder clears the record; any other incomplete value is invalid.
func DecidePersonalRecord(current, value string) PersonalRecordAction {
	value = strings.TrimSpace(value)
	if value == current {
		return PRUnchanged
	}
	if timemask.Complete(value) {
		return PRUpsert
	}
	if value == "" || value == timemask.Placeholder {
		if current == "" {
			return PRUnchanged
		}
		return PRDelete
	}
	return PRInvalid
}
