package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackboard/trackboard/internal/timemask"
)

var namedKeys = map[tea.KeyType]timemask.KeyEvent{
	tea.KeyBackspace: {Key: timemask.KeyBackspace},
	tea.KeyDelete:    {Key: timemask.KeyDelete},
	tea.KeyTab:       {Key: timemask.KeyTab},
	tea.KeyHome:      {Key: timemask.KeyHome},
	tea.KeyEnd:       {Key: timemask.KeyEnd},
	tea.KeyLeft:      {Key: timemask.KeyArrowLeft},
	tea.KeyRight:     {Key: timemask.KeyArrowRight},
	tea.KeyUp:        {Key: timemask.KeyArrowUp},
	tea.KeyDown:      {Key: timemask.KeyArrowDown},
	tea.KeyEnter:     {Key: timemask.KeyEnter},
	tea.KeyEsc:       {Key: timemask.KeyEscape},
	tea.KeySpace:     {Key: " "},
	tea.KeyCtrlA:     {Key: "a", Ctrl: true},
	tea.KeyCtrlX:     {Key: "x", Ctrl: true},
	tea.KeyCtrlV:     {Key: "v", Ctrl: true},
	tea.KeyCtrlZ:     {Key: "z", Ctrl: true},
	// Terminals have no ctrl+shift+z, so ctrl+y redoes.
	tea.KeyCtrlY: {Key: "z", Ctrl: true, Shift: true},
}

// keyEvents translates a terminal key message into the key presses the mask
// understands. A message may carry several runes when typing outpaces the
// renderer; each becomes its own press. Ctrl+C belongs to the program, so
// copy is bound to alt+c.
func keyEvents(msg tea.KeyMsg) []timemask.KeyEvent {
	if ev, ok := namedKeys[msg.Type]; ok {
		ev.Meta = msg.Alt
		return []timemask.KeyEvent{ev}
	}
	if msg.Type != tea.KeyRunes {
		return nil
	}
	out := make([]timemask.KeyEvent, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		out = append(out, timemask.KeyEvent{Key: string(r), Meta: msg.Alt})
	}
	return out
}
