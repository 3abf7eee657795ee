// Package timemask implements the masked race-time input used by every
// record field: a small state machine that keeps a text buffer shaped like
// MM:SS.mmm while the user types, deletes, or pastes.
//
// Event handlers are applied in this order by a host text field:
//
//  1. KeyDown filters a key before the host inserts it.
//  2. Input normalizes the buffer after the host applied an edit.
//  3. Paste replaces the host's default paste entirely.
//
// Rejected input is dropped silently. Whether a buffer holds a finished time
// is a separate question answered by Complete.
package timemask

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxLength is the length of a fully formed time, "DD:DD.DDD".
	MaxLength = 9

	// Placeholder is shown in place of an empty time.
	Placeholder = "--:--.---"

	// Pattern documents the accepted shape for form hints.
	Pattern = "##:##.###"

	colonIndex = 2
	dotIndex   = 5
)

var (
	completeRe = regexp.MustCompile(`^\d{2}:\d{2}\.\d{3}$`)
	partialRe  = regexp.MustCompile(`^\d{0,2}(:\d{0,2}(\.\d{0,3})?)?$`)
)

// Complete reports whether s is a finished, submittable time.
func Complete(s string) bool {
	return completeRe.MatchString(s)
}

// Partial reports whether s is a valid intermediate buffer: a prefix of
// DD:DD.DDD with separators only at their fixed positions.
func Partial(s string) bool {
	return partialRe.MatchString(s)
}

// Key names follow the DOM KeyboardEvent.key values.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyTab        = "Tab"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
)

// KeyEvent is a single key press as seen by the field.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (ev KeyEvent) chord() bool {
	if !ev.Ctrl && !ev.Meta {
		return false
	}
	switch ev.Key {
	case "a", "z", "Z", "x", "c", "v":
		return true
	}
	return false
}

// digit reports a plain digit key. With Ctrl or Meta held the host does not
// insert the character.
func (ev KeyEvent) digit() bool {
	return len(ev.Key) == 1 && isDigit(ev.Key[0]) && !ev.Ctrl && !ev.Meta
}

// Options parametrizes a mask for a particular call site.
type Options struct {
	// ExtraKeys are passed through in addition to the navigation, deletion
	// and clipboard keys every field accepts.
	ExtraKeys []string
}

var (
	// FormOptions suits fields inside a form.
	FormOptions = Options{}

	// InlineOptions suits inline-editable cells that commit on Enter and
	// cancel on Escape.
	InlineOptions = Options{ExtraKeys: []string{KeyEnter, KeyEscape}}
)

// Mask holds the per-field state of the masked input. The zero value is not
// usable; create one with New. A Mask must not be shared between fields.
type Mask struct {
	extra map[string]struct{}

	// pendingCaret is set by KeyDown when it inserted a separator and is
	// consumed by the next Input.
	pendingCaret int
	hasPending   bool
}

// New returns a mask configured with opts.
func New(opts Options) *Mask {
	m := &Mask{extra: make(map[string]struct{}, len(opts.ExtraKeys))}
	for _, k := range opts.ExtraKeys {
		m.extra[k] = struct{}{}
	}
	return m
}

// KeyDown filters ev against the current value and caret. It returns the
// value the host should continue with and whether the key may proceed to its
// default action. When a digit arrives at length 2 or 5 the separator is
// appended to the returned value, so the digit lands right after it.
func (m *Mask) KeyDown(ev KeyEvent, value string, cursor int) (string, bool) {
	switch {
	case ev.digit():
		switch len(value) {
		case colonIndex:
			value += ":"
			m.setPending(cursor + 2)
		case dotIndex:
			value += "."
			m.setPending(cursor + 2)
		}
		return value, true
	case m.passThrough(ev):
		return value, true
	case ev.Key == ":" && len(value) == colonIndex:
		return value, true
	case ev.Key == "." && len(value) == dotIndex:
		return value, true
	}
	return value, false
}

func (m *Mask) passThrough(ev KeyEvent) bool {
	switch ev.Key {
	case KeyBackspace, KeyDelete, KeyTab, KeyHome, KeyEnd:
		return true
	}
	if strings.HasPrefix(ev.Key, "Arrow") || ev.chord() {
		return true
	}
	_, ok := m.extra[ev.Key]
	return ok
}

// Input normalizes value after the host applied an edit and returns the new
// value and caret. The caret goes to the position KeyDown computed for this
// edit, if any, otherwise it stays at cursor.
func (m *Mask) Input(value string, cursor int) (string, int) {
	value = Normalize(value)
	if m.hasPending {
		cursor = m.pendingCaret
		m.hasPending = false
	}
	return value, clamp(cursor, 0, len(value))
}

// Discard drops a caret position computed by KeyDown for an edit the host
// ended up not applying.
func (m *Mask) Discard() {
	m.hasPending = false
}

func (m *Mask) setPending(pos int) {
	m.pendingCaret = pos
	m.hasPending = true
}

// Normalize removes separators that are out of place, closes up the digits
// around them and re-inserts ':' at index 2 and '.' at index 5 once the
// buffer has grown past them. Characters other than digits and separators
// are dropped, and the result is cut to MaxLength. Normalize is idempotent.
func Normalize(value string) string {
	kept := make([]byte, 0, len(value))
	i := 0
	for _, r := range value {
		switch {
		case r == ':' && i == colonIndex, r == '.' && i == dotIndex:
			kept = append(kept, byte(r))
		case r < utf8.RuneSelf && isDigit(byte(r)):
			kept = append(kept, byte(r))
		}
		i++
	}

	out := make([]byte, 0, MaxLength)
	for _, c := range kept {
		if len(out) == MaxLength {
			break
		}
		sep, fixed := separatorAt(len(out))
		switch {
		case fixed && c == sep:
			out = append(out, c)
		case fixed && isDigit(c):
			out = append(out, sep)
			if len(out) < MaxLength {
				out = append(out, c)
			}
		case isDigit(c):
			out = append(out, c)
		}
	}
	return string(out)
}

// Paste inserts clip into value at the selection [selStart, selEnd) the way
// a user would have typed it and returns the new value and caret. A
// non-empty selection is replaced. Characters other than digits are dropped,
// except ':' at length 2 and '.' at length 5. Digits landing on index 2 or 5
// get their separator first. Input past MaxLength is discarded.
func Paste(clip, value string, selStart, selEnd int) (string, int) {
	selStart = clamp(selStart, 0, len(value))
	selEnd = clamp(selEnd, selStart, len(value))

	buf := []byte(value)
	if clip != "" && selStart != selEnd {
		buf = append(buf[:selStart:selStart], buf[selEnd:]...)
	}

	pos := selStart
scan:
	for _, r := range clip {
		if len(buf) >= MaxLength {
			break
		}
		switch {
		case r == ':':
			if len(buf) != colonIndex {
				continue
			}
		case r == '.':
			if len(buf) != dotIndex {
				continue
			}
		case r < utf8.RuneSelf && isDigit(byte(r)):
			if sep, fixed := separatorAt(pos); fixed {
				if pos < len(buf) && buf[pos] == sep {
					pos++
				} else {
					buf = insertAt(buf, pos, sep)
					pos++
					if len(buf) >= MaxLength {
						break scan
					}
				}
			}
		default:
			continue
		}
		buf = insertAt(buf, pos, byte(r))
		pos++
	}

	out := Normalize(string(buf))
	// The caret follows the characters before pos that survived Normalize.
	return out, clamp(len(Normalize(string(buf[:pos]))), 0, len(out))
}

func separatorAt(i int) (byte, bool) {
	switch i {
	case colonIndex:
		return ':', true
	case dotIndex:
		return '.', true
	}
	return 0, false
}

func insertAt(b []byte, i int, c byte) []byte {
	b = append(b, 0)
	copy(b[i+1:], b[i:])
	b[i] = c
	return b
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
