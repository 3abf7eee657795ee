package timemask

// Field is a single-line text field with a Mask attached. It plays the part
// of the host text input: it owns the text, the selection, the length limit
// and an undo history, and it dispatches every edit through the mask in the
// order KeyDown, default action, Input.
type Field struct {
	mask      *Mask
	value     string
	selStart  int
	selEnd    int
	clipboard string

	undo []snapshot
	redo []snapshot
}

type snapshot struct {
	value  string
	cursor int
}

// NewField returns a field pre-filled with initial, normalized, and the
// caret at its end.
func NewField(initial string, opts Options) *Field {
	v := Normalize(initial)
	return &Field{
		mask:     New(opts),
		value:    v,
		selStart: len(v),
		selEnd:   len(v),
	}
}

// Value returns the current text.
func (f *Field) Value() string { return f.value }

// Cursor returns the caret offset, the start of the selection.
func (f *Field) Cursor() int { return f.selStart }

// Selection returns the selected range; it is empty when start == end.
func (f *Field) Selection() (start, end int) { return f.selStart, f.selEnd }

// Complete reports whether the field holds a finished time.
func (f *Field) Complete() bool { return Complete(f.value) }

// Clipboard returns the text last copied or cut from the field.
func (f *Field) Clipboard() string { return f.clipboard }

// SetValue replaces the text programmatically, as when a form is reset to a
// stored record.
func (f *Field) SetValue(s string) {
	f.record()
	f.value = Normalize(s)
	f.collapse(len(f.value))
}

// Clear empties the field.
func (f *Field) Clear() { f.SetValue("") }

// Select sets the selection, clamped to the text.
func (f *Field) Select(start, end int) {
	f.selStart = clamp(start, 0, len(f.value))
	f.selEnd = clamp(end, f.selStart, len(f.value))
}

// Press delivers one key press. It reports whether the mask let the key
// through; hosts use this to act on pass-through keys such as Enter.
func (f *Field) Press(ev KeyEvent) bool {
	before := snapshot{f.value, f.selStart}

	v, ok := f.mask.KeyDown(ev, f.value, f.selStart)
	if !ok {
		return false
	}
	if v != f.value {
		// Setting the value programmatically moves the caret to the end.
		f.value = v
		f.collapse(len(v))
	}

	switch {
	case ev.chord():
		f.chord(ev)
		return true
	case ev.Key == KeyBackspace:
		f.deleteBackward()
	case ev.Key == KeyDelete:
		f.deleteForward()
	case ev.Key == KeyArrowLeft:
		f.moveLeft()
	case ev.Key == KeyArrowRight:
		f.moveRight()
	case ev.Key == KeyHome, ev.Key == KeyArrowUp:
		f.collapse(0)
	case ev.Key == KeyEnd, ev.Key == KeyArrowDown:
		f.collapse(len(f.value))
	case len(ev.Key) == 1 && !ev.Ctrl && !ev.Meta:
		f.insert(ev.Key)
	}

	if f.value != before.value {
		f.push(before)
	}
	f.mask.Discard()
	return true
}

// Paste inserts clipboard text through the mask's paste handler.
func (f *Field) Paste(text string) {
	before := snapshot{f.value, f.selStart}
	v, c := Paste(text, f.value, f.selStart, f.selEnd)
	f.value = v
	f.collapse(c)
	if f.value != before.value {
		f.push(before)
	}
}

func (f *Field) chord(ev KeyEvent) {
	switch {
	case ev.Key == "a":
		f.Select(0, len(f.value))
	case ev.Key == "c":
		if f.selStart != f.selEnd {
			f.clipboard = f.value[f.selStart:f.selEnd]
		}
	case ev.Key == "x":
		if f.selStart == f.selEnd {
			return
		}
		before := snapshot{f.value, f.selStart}
		f.clipboard = f.value[f.selStart:f.selEnd]
		f.edit(f.value[:f.selStart]+f.value[f.selEnd:], f.selStart)
		f.push(before)
	case ev.Key == "v":
		f.Paste(f.clipboard)
	case ev.Key == "Z" || (ev.Key == "z" && ev.Shift):
		f.step(&f.redo, &f.undo)
	case ev.Key == "z":
		f.step(&f.undo, &f.redo)
	}
}

// insert applies the default insertion of text, honoring MaxLength the way
// a browser's maxlength attribute does: an insertion that would overflow is
// not applied at all.
func (f *Field) insert(text string) {
	next := f.value[:f.selStart] + text + f.value[f.selEnd:]
	if len(next) > MaxLength {
		return
	}
	f.edit(next, f.selStart+len(text))
}

func (f *Field) deleteBackward() {
	switch {
	case f.selStart != f.selEnd:
		f.edit(f.value[:f.selStart]+f.value[f.selEnd:], f.selStart)
	case f.selStart > 0:
		f.edit(f.value[:f.selStart-1]+f.value[f.selStart:], f.selStart-1)
	}
}

func (f *Field) deleteForward() {
	switch {
	case f.selStart != f.selEnd:
		f.edit(f.value[:f.selStart]+f.value[f.selEnd:], f.selStart)
	case f.selStart < len(f.value):
		f.edit(f.value[:f.selStart]+f.value[f.selStart+1:], f.selStart)
	}
}

// edit commits a raw edit and runs the mask's input normalizer over it.
func (f *Field) edit(raw string, cursor int) {
	v, c := f.mask.Input(raw, cursor)
	f.value = v
	f.collapse(c)
}

func (f *Field) moveLeft() {
	if f.selStart != f.selEnd {
		f.collapse(f.selStart)
		return
	}
	f.collapse(f.selStart - 1)
}

func (f *Field) moveRight() {
	if f.selStart != f.selEnd {
		f.collapse(f.selEnd)
		return
	}
	f.collapse(f.selStart + 1)
}

func (f *Field) collapse(pos int) {
	pos = clamp(pos, 0, len(f.value))
	f.selStart, f.selEnd = pos, pos
}

func (f *Field) record() {
	f.push(snapshot{f.value, f.selStart})
}

func (f *Field) push(s snapshot) {
	f.undo = append(f.undo, s)
	f.redo = f.redo[:0]
}

// step moves one snapshot from src to the current state, saving the current
// state on dst.
func (f *Field) step(src, dst *[]snapshot) {
	if len(*src) == 0 {
		return
	}
	last := (*src)[len(*src)-1]
	*src = (*src)[:len(*src)-1]
	*dst = append(*dst, snapshot{f.value, f.selStart})
	f.value = last.value
	f.collapse(last.cursor)
}
