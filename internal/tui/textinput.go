package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// textInput is a plain single-line field for the form's free-text values.
type textInput struct {
	value   []rune
	cursor  int
	limit   int
	focused bool
}

func newTextInput(initial string, limit int) *textInput {
	r := []rune(initial)
	if limit > 0 && len(r) > limit {
		r = r[:limit]
	}
	return &textInput{value: r, cursor: len(r), limit: limit}
}

func (t *textInput) Value() string { return string(t.value) }

func (t *textInput) SetValue(s string) {
	t.value = []rune(s)
	t.cursor = len(t.value)
}

func (t *textInput) Update(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		if t.limit > 0 && len(t.value)+len(runes) > t.limit {
			runes = runes[:max(0, t.limit-len(t.value))]
		}
		next := append([]rune{}, t.value[:t.cursor]...)
		next = append(next, runes...)
		t.value = append(next, t.value[t.cursor:]...)
		t.cursor += len(runes)
	case tea.KeyBackspace:
		if t.cursor > 0 {
			t.value = append(t.value[:t.cursor-1], t.value[t.cursor:]...)
			t.cursor--
		}
	case tea.KeyDelete:
		if t.cursor < len(t.value) {
			t.value = append(t.value[:t.cursor], t.value[t.cursor+1:]...)
		}
	case tea.KeyLeft:
		t.cursor = max(0, t.cursor-1)
	case tea.KeyRight:
		t.cursor = min(len(t.value), t.cursor+1)
	case tea.KeyHome, tea.KeyCtrlA:
		t.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		t.cursor = len(t.value)
	case tea.KeyCtrlU:
		t.value, t.cursor = t.value[:0], 0
	}
}

func (t *textInput) View(placeholder string) string {
	if !t.focused {
		if len(t.value) == 0 {
			return stylePlaceholder.Render(placeholder)
		}
		return string(t.value)
	}
	var b strings.Builder
	b.WriteString(string(t.value[:t.cursor]))
	if t.cursor < len(t.value) {
		b.WriteString(styleCursor.Render(string(t.value[t.cursor])))
		b.WriteString(string(t.value[t.cursor+1:]))
	} else {
		b.WriteString(styleCursor.Render(" "))
	}
	return b.String()
}
