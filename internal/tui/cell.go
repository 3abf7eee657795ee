package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackboard/trackboard/internal/timemask"
)

// CellOutcome is what a key press did to an InlineRecordCell.
type CellOutcome int

const (
	CellEditing CellOutcome = iota
	CellCommit
	CellCancel
)

// InlineRecordCell edits a personal record in place. Enter and Escape pass
// the mask so the cell can commit or cancel; an empty cell previews the
// placeholder.
type InlineRecordCell struct {
	TrackID  int64
	original string
	input    *TimeInput
}

func NewInlineRecordCell(trackID int64, current string) *InlineRecordCell {
	in := NewTimeInput(current, timemask.InlineOptions)
	in.Placeholder = timemask.Placeholder
	in.Focus()
	return &InlineRecordCell{TrackID: trackID, original: current, input: in}
}

// Original is the stored record the cell started from.
func (c *InlineRecordCell) Original() string { return c.original }

func (c *InlineRecordCell) Value() string { return c.input.Value() }

// Update applies a key and reports whether it committed or cancelled the
// edit. Cancelling restores the original value.
func (c *InlineRecordCell) Update(msg tea.KeyMsg) CellOutcome {
	if msg.Paste {
		c.input.Update(msg)
		return CellEditing
	}
	for _, ev := range keyEvents(msg) {
		if !c.input.Press(ev) {
			continue
		}
		switch ev.Key {
		case timemask.KeyEnter:
			return CellCommit
		case timemask.KeyEscape:
			c.input.SetValue(c.original)
			return CellCancel
		}
	}
	return CellEditing
}

func (c *InlineRecordCell) View() string {
	if c.input.Value() == "" {
		return styleCursor.Render(" ") + stylePlaceholder.Render(timemask.Placeholder[1:])
	}
	return c.input.View()
}
