package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackboard/trackboard/internal/timemask"
)

// TimeInput is a single-line MM:SS.mmm input for bubbletea programs. Every
// key goes through the field's mask, so the text is always a well-formed
// prefix of a race time.
type TimeInput struct {
	field   *timemask.Field
	focused bool

	// Placeholder is shown while the input is empty and blurred.
	Placeholder string
}

func NewTimeInput(initial string, opts timemask.Options) *TimeInput {
	return &TimeInput{
		field:       timemask.NewField(initial, opts),
		Placeholder: timemask.Pattern,
	}
}

func (t *TimeInput) Focus()        { t.focused = true }
func (t *TimeInput) Blur()         { t.focused = false }
func (t *TimeInput) Focused() bool { return t.focused }

func (t *TimeInput) Value() string     { return t.field.Value() }
func (t *TimeInput) SetValue(s string) { t.field.SetValue(s) }
func (t *TimeInput) Complete() bool    { return t.field.Complete() }

// Press delivers one translated key and reports whether the mask let it
// through.
func (t *TimeInput) Press(ev timemask.KeyEvent) bool {
	return t.field.Press(ev)
}

// Update applies a key message. Bracketed pastes go through the paste
// handler rather than key by key.
func (t *TimeInput) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !t.focused {
		return nil
	}
	if key.Paste {
		t.field.Paste(string(key.Runes))
		return nil
	}
	for _, ev := range keyEvents(key) {
		t.field.Press(ev)
	}
	return nil
}

func (t *TimeInput) View() string {
	v := t.field.Value()
	if !t.focused {
		if v == "" {
			return stylePlaceholder.Render(t.Placeholder)
		}
		return v
	}

	start, end := t.field.Selection()
	if start != end {
		return v[:start] + styleSelection.Render(v[start:end]) + v[end:]
	}
	var b strings.Builder
	b.WriteString(v[:start])
	if start < len(v) {
		b.WriteString(styleCursor.Render(v[start : start+1]))
		b.WriteString(v[start+1:])
	} else {
		b.WriteString(styleCursor.Render(" "))
	}
	return b.String()
}
