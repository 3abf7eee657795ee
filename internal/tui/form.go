package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trackboard/trackboard/internal/timemask"
	"github.com/trackboard/trackboard/internal/trackboard"
)

type formField int

const (
	fieldRecord formField = iota
	fieldDate
	fieldPlayer
	fieldRegion
	fieldVideo
	fieldKart
	fieldRacer
	fieldControl
	fieldOtherControl
	fieldCount
)

var fieldLabels = [fieldCount]string{"Record", "Date", "Player", "Region", "Video", "Kart", "Racer", "Control type", "Describe"}

// fieldNames maps form fields to recordSubmission fields for error lookup.
var fieldNames = [fieldCount]string{"Record", "Date", "Player", "Region", "Video", "", "", "ControlType", "ControlType"}

// controlChoices leads with "" for records that do not say.
var controlChoices = append([]string{""}, trackboard.ControlTypes...)

// RecordForm adds a record to a track or edits an existing one. It quits
// the program when the user submits a valid record or cancels; Result tells
// which.
type RecordForm struct {
	track trackboard.Track
	edit  bool

	record       *TimeInput
	date         *textInput
	player       *textInput
	video        *textInput
	kart         *textInput
	racer        *textInput
	otherControl *textInput

	regions []trackboard.Country
	region  int
	control int

	focus  formField
	errs   map[string]string
	result *trackboard.RecordInput
	now    func() time.Time
}

// NewRecordForm returns a form for track. When existing is not nil the form
// starts from its values. countries feeds the region picker; the ALL
// pseudo-country is left out.
func NewRecordForm(track trackboard.Track, existing *trackboard.Record, countries []trackboard.Country) *RecordForm {
	f := &RecordForm{
		track:   track,
		edit:    existing != nil,
		regions: []trackboard.Country{{}},
		now:     time.Now,
	}
	for _, c := range countries {
		if c.Code != trackboard.AllCountries {
			f.regions = append(f.regions, c)
		}
	}

	var rec trackboard.Record
	if existing != nil {
		rec = *existing
	} else {
		rec.Date = f.now().Format(dateLayout)
	}

	f.record = NewTimeInput(rec.Record, timemask.FormOptions)
	f.date = newTextInput(rec.Date, 32)
	f.player = newTextInput(rec.Player, 64)
	f.video = newTextInput(rec.Video, 256)
	f.kart = newTextInput(rec.Kart, 64)
	f.racer = newTextInput(rec.Racer, 64)
	f.otherControl = newTextInput("", 64)

	f.region = max(0, slices.IndexFunc(f.regions, func(c trackboard.Country) bool { return c.Code == rec.Region }))
	switch i := slices.Index(controlChoices, rec.ControlType); {
	case i >= 0:
		f.control = i
	default:
		f.control = slices.Index(controlChoices, trackboard.ControlOther)
		f.otherControl.SetValue(rec.ControlType)
	}

	f.setFocus(fieldRecord)
	return f
}

// SetClock replaces the clock used for today's date.
func (f *RecordForm) SetClock(now func() time.Time) { f.now = now }

// Result returns the submitted record, or false when the form was
// cancelled or is still open.
func (f *RecordForm) Result() (trackboard.RecordInput, bool) {
	if f.result == nil {
		return trackboard.RecordInput{}, false
	}
	return *f.result, true
}

// Errors returns the validation messages of the last submit, keyed by field.
func (f *RecordForm) Errors() map[string]string { return f.errs }

func (f *RecordForm) Init() tea.Cmd { return nil }

func (f *RecordForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return f, tea.Quit
	case tea.KeyCtrlS:
		return f, f.submit()
	case tea.KeyTab, tea.KeyDown:
		f.move(1)
		return f, nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.move(-1)
		return f, nil
	case tea.KeyEnter:
		if f.focus == f.lastField() {
			return f, f.submit()
		}
		f.move(1)
		return f, nil
	}

	switch f.focus {
	case fieldRecord:
		return f, f.record.Update(key)
	case fieldRegion:
		f.region = cycle(f.region, len(f.regions), key)
	case fieldControl:
		f.control = cycle(f.control, len(controlChoices), key)
	default:
		f.textField(f.focus).Update(key)
	}
	return f, nil
}

// cycle moves a picker index on left, right and space.
func cycle(i, n int, key tea.KeyMsg) int {
	switch key.Type {
	case tea.KeyLeft:
		return (i + n - 1) % n
	case tea.KeyRight, tea.KeySpace:
		return (i + 1) % n
	}
	return i
}

func (f *RecordForm) textField(ff formField) *textInput {
	switch ff {
	case fieldDate:
		return f.date
	case fieldPlayer:
		return f.player
	case fieldVideo:
		return f.video
	case fieldKart:
		return f.kart
	case fieldRacer:
		return f.racer
	case fieldOtherControl:
		return f.otherControl
	}
	return nil
}

func (f *RecordForm) otherSelected() bool {
	return controlChoices[f.control] == trackboard.ControlOther
}

func (f *RecordForm) lastField() formField {
	if f.otherSelected() {
		return fieldOtherControl
	}
	return fieldControl
}

func (f *RecordForm) move(delta int) {
	n := int(f.lastField()) + 1
	f.setFocus(formField((int(f.focus) + delta + n) % n))
}

func (f *RecordForm) setFocus(ff formField) {
	f.focus = ff
	if ff == fieldRecord {
		f.record.Focus()
	} else {
		f.record.Blur()
	}
	for _, t := range []formField{fieldDate, fieldPlayer, fieldVideo, fieldKart, fieldRacer, fieldOtherControl} {
		f.textField(t).focused = t == ff
	}
}

func (f *RecordForm) controlType() string {
	c := controlChoices[f.control]
	if c != trackboard.ControlOther {
		return c
	}
	if other := strings.TrimSpace(f.otherControl.Value()); other != "" {
		return other
	}
	return trackboard.ControlOther
}

// submit validates the form. A valid record is stored for Result and the
// program quits; otherwise focus moves to the first failing field.
func (f *RecordForm) submit() tea.Cmd {
	now := f.now()
	in := trackboard.RecordInput{
		TrackID:     f.track.ID,
		Record:      f.record.Value(),
		Date:        parseDate(f.date.Value(), now),
		Player:      f.player.Value(),
		Video:       f.video.Value(),
		Region:      f.regions[f.region].Code,
		Kart:        f.kart.Value(),
		Racer:       f.racer.Value(),
		ControlType: f.controlType(),
	}
	in.Normalize()

	f.errs = validateSubmission(recordSubmission{
		Record:      in.Record,
		Date:        in.Date,
		Player:      in.Player,
		Video:       in.Video,
		Region:      in.Region,
		ControlType: in.ControlType,
	}, now)
	if f.errs != nil {
		for ff := fieldRecord; ff <= f.lastField(); ff++ {
			if _, bad := f.errs[fieldNames[ff]]; bad {
				f.setFocus(ff)
				break
			}
		}
		return nil
	}

	f.date.SetValue(in.Date)
	f.result = &in
	return tea.Quit
}

func (f *RecordForm) View() string {
	var b strings.Builder

	verb := "Add record"
	if f.edit {
		verb = "Edit record"
	}
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s · %s", verb, f.track.Name)))
	b.WriteString("\n")

	for ff := fieldRecord; ff <= f.lastField(); ff++ {
		label := styleLabel
		if ff == f.focus {
			label = styleLabelActive
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, label.Render(fieldLabels[ff]), f.fieldView(ff))
		if msg, bad := f.errs[fieldNames[ff]]; bad && fieldNames[ff] != "" {
			row += "  " + styleError.Render(msg)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString(styleHelp.Render("tab/↓ next • shift+tab/↑ back • ←/→ pick • enter on last field or ctrl+s save • esc cancel"))
	return b.String()
}

func (f *RecordForm) fieldView(ff formField) string {
	switch ff {
	case fieldRecord:
		return f.record.View()
	case fieldRegion:
		c := f.regions[f.region]
		if c.Code == "" {
			return stylePlaceholder.Render("‹ none ›")
		}
		return fmt.Sprintf("‹ %s (%s) ›", c.Name, c.Code)
	case fieldControl:
		if controlChoices[f.control] == "" {
			return stylePlaceholder.Render("‹ none ›")
		}
		return fmt.Sprintf("‹ %s ›", controlChoices[f.control])
	case fieldDate:
		return f.date.View("YYYY-MM-DD or yesterday")
	case fieldPlayer:
		return f.player.View(trackboard.DefaultPlayer)
	case fieldOtherControl:
		return f.otherControl.View("e.g. Steering wheel")
	}
	return f.textField(ff).View("")
}
