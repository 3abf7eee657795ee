package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trackboard/trackboard/internal/timemask"
	"github.com/trackboard/trackboard/internal/trackboard"
)

// SavePersonalRecord stores value as the user's personal record on a track
// and returns what is stored afterwards, "" once cleared.
type SavePersonalRecord func(ctx context.Context, trackID int64, value string) (string, error)

// savedMsg reports the outcome of a personal-record save.
type savedMsg struct {
	trackID int64
	record  string
	err     error
}

type boardColumn struct {
	key   string
	title string
	width int
}

var boardColumns = []boardColumn{
	{trackboard.ColName, "Track", 22},
	{trackboard.ColTheme, "Theme", 12},
	{trackboard.ColLicense, "License", 8},
	{trackboard.ColLaps, "Laps", 5},
	{trackboard.ColItemMode, "Items", 6},
	{trackboard.ColTopSavedRecord, "Record", 10},
	{trackboard.ColPlayer, "Player", 14},
	{trackboard.ColRecords, "#", 4},
}

// Board is the interactive tracks table. Signed-in users edit their
// personal record on the selected row in place.
type Board struct {
	all    []trackboard.TrackOverview
	rows   []trackboard.TrackOverview
	filter trackboard.Filter
	sort   trackboard.Sort

	selected  int
	column    int
	searching bool

	cell    *InlineRecordCell
	save    SavePersonalRecord
	message string
	err     error
}

// NewBoard shows tracks. save may be nil, in which case the personal record
// column is read-only.
func NewBoard(tracks []trackboard.TrackOverview, save SavePersonalRecord) *Board {
	b := &Board{all: tracks, save: save}
	b.refresh()
	return b
}

func (b *Board) Init() tea.Cmd { return nil }

// Rows returns the visible tracks in display order.
func (b *Board) Rows() []trackboard.TrackOverview { return b.rows }

func (b *Board) Sort() trackboard.Sort { return b.sort }

func (b *Board) refresh() {
	var id int64
	if b.selected >= 0 && b.selected < len(b.rows) {
		id = b.rows[b.selected].ID
	}
	b.rows = trackboard.FilterTracks(b.all, b.filter)
	trackboard.SortTracks(b.rows, b.sort)
	b.selected = 0
	for i, r := range b.rows {
		if r.ID == id {
			b.selected = i
		}
	}
}

func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return b, b.saved(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return b, tea.Quit
		}
		switch {
		case b.cell != nil:
			return b, b.updateCell(msg)
		case b.searching:
			b.updateSearch(msg)
			return b, nil
		}
		return b, b.updateTable(msg)
	}
	return b, nil
}

func (b *Board) updateTable(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		b.selected = max(0, b.selected-1)
	case "down", "j":
		if b.selected < len(b.rows)-1 {
			b.selected++
		}
	case "left", "h":
		b.column = (b.column + len(boardColumns) - 1) % len(boardColumns)
	case "right", "l":
		b.column = (b.column + 1) % len(boardColumns)
	case "s":
		b.sort = b.sort.Toggle(boardColumns[b.column].key, trackboard.FixedTrackColumns...)
		b.refresh()
	case "g":
		b.filter.SpeedGrandPrix = !b.filter.SpeedGrandPrix
		b.refresh()
	case "/":
		b.searching = true
	case "e", "enter":
		if b.save == nil {
			b.message = "sign in to edit personal records"
			return nil
		}
		if len(b.rows) > 0 {
			row := b.rows[b.selected]
			b.cell = NewInlineRecordCell(row.ID, row.PersonalRecord)
			b.message, b.err = "", nil
		}
	}
	return nil
}

func (b *Board) updateSearch(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		b.searching = false
		return
	case tea.KeyBackspace:
		if r := []rune(b.filter.Search); len(r) > 0 {
			b.filter.Search = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		b.filter.Search += " "
	case tea.KeyRunes:
		b.filter.Search += string(msg.Runes)
	}
	b.refresh()
}

func (b *Board) updateCell(msg tea.KeyMsg) tea.Cmd {
	switch b.cell.Update(msg) {
	case CellCancel:
		b.cell = nil
		return nil
	case CellCommit:
		cell := b.cell
		switch trackboard.DecidePersonalRecord(cell.Original(), cell.Value()) {
		case trackboard.PRUnchanged:
			b.cell = nil
			return nil
		case trackboard.PRInvalid:
			b.err = fmt.Errorf("invalid record value %q (value should follow pattern %s)", cell.Value(), timemask.Pattern)
			return nil
		}
		b.cell = nil
		return b.saveCmd(cell.TrackID, cell.Value())
	}
	return nil
}

func (b *Board) saveCmd(trackID int64, value string) tea.Cmd {
	save := b.save
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rec, err := save(ctx, trackID, value)
		return savedMsg{trackID: trackID, record: rec, err: err}
	}
}

func (b *Board) saved(msg savedMsg) tea.Cmd {
	if msg.err != nil {
		b.err = msg.err
		return nil
	}
	for i := range b.all {
		if b.all[i].ID == msg.trackID {
			b.all[i].PersonalRecord = msg.record
			b.message = fmt.Sprintf("saved personal record on %s", b.all[i].Name)
			if msg.record == "" {
				b.message = fmt.Sprintf("cleared personal record on %s", b.all[i].Name)
			}
		}
	}
	b.err = nil
	b.refresh()
	return nil
}

func (b *Board) View() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Tracks"))
	sb.WriteString("\n")

	headers := make([]string, 0, len(boardColumns)+1)
	for i, c := range boardColumns {
		title := c.title
		if b.sort.Column == c.key {
			switch b.sort.Order {
			case trackboard.SortAsc:
				title += "↑"
			case trackboard.SortDesc:
				title += "↓"
			}
		}
		style := styleHeader.Width(c.width)
		if i == b.column {
			style = style.Underline(true)
		}
		headers = append(headers, style.Render(title))
	}
	headers = append(headers, styleHeader.Render("PB"))
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...) + "\n")

	for i, r := range b.rows {
		cells := []string{
			r.Name, r.Theme, r.License, fmt.Sprint(r.Laps), yesNo(r.ItemMode),
			orDash(r.Record), orDash(r.Player), fmt.Sprint(r.NumberOfRecords),
		}
		parts := make([]string, 0, len(cells)+1)
		for j, c := range cells {
			parts = append(parts, lipgloss.NewStyle().Width(boardColumns[j].width).MaxWidth(boardColumns[j].width).Render(c))
		}
		pb := orDash(r.PersonalRecord)
		if b.cell != nil && b.cell.TrackID == r.ID {
			pb = b.cell.View()
		}
		parts = append(parts, pb)
		line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		if i == b.selected {
			line = styleSelectedRow.Render("› ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	if b.searching || b.filter.Search != "" {
		sb.WriteString(fmt.Sprintf("\nsearch: %s", b.filter.Search))
		if b.searching {
			sb.WriteString(styleCursor.Render(" "))
		}
		sb.WriteString("\n")
	}
	if b.filter.SpeedGrandPrix {
		sb.WriteString("speed grand prix only\n")
	}
	if b.err != nil {
		sb.WriteString(styleError.Render(b.err.Error()) + "\n")
	} else if b.message != "" {
		sb.WriteString(styleSuccess.Render(b.message) + "\n")
	}

	help := "↑/↓ select • ←/→ column • s sort • g speed GP • / search • e edit PB • q quit"
	if b.cell != nil {
		help = "enter save • esc cancel • empty or " + timemask.Placeholder + " clears"
	}
	sb.WriteString(styleHelp.Render(help))
	return sb.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
