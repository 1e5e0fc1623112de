package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/discografia/internal/crud"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
	fieldToggle
)

type option struct {
	value string
	label string
}

// field is one editable row of a record form. read and write map the row to
// the draft; toggles read and write "true"/"false".
type field[T any] struct {
	label   string
	kind    fieldKind
	input   textinput.Model
	options []option
	read    func(T) string
	write   func(*T, string)
}

func textField[T any](label, placeholder string, limit int, read func(T) string, write func(*T, string)) *field[T] {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = LayoutFormWidth - 24
	ti.Prompt = ""
	return &field[T]{label: label, kind: fieldText, input: ti, read: read, write: write}
}

func selectField[T any](label string, options []option, read func(T) string, write func(*T, string)) *field[T] {
	return &field[T]{label: label, kind: fieldSelect, options: options, read: read, write: write}
}

func toggleField[T any](label string, read func(T) bool, write func(*T, bool)) *field[T] {
	return &field[T]{
		label: label,
		kind:  fieldToggle,
		read:  func(v T) string { return strconv.FormatBool(read(v)) },
		write: func(v *T, s string) { write(v, s == "true") },
	}
}

// cycle returns the option value step positions away from current.
func (f *field[T]) cycle(current string, step int) string {
	if len(f.options) == 0 {
		return current
	}
	idx := -1
	for i, opt := range f.options {
		if opt.value == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step > 0 {
			return f.options[0].value
		}
		return f.options[len(f.options)-1].value
	}
	n := len(f.options)
	return f.options[((idx+step)%n+n)%n].value
}

func (f *field[T]) optionLabel(value string) string {
	for _, opt := range f.options {
		if opt.value == value {
			return opt.label
		}
	}
	return value
}

// editor drives a crud.Form with keyboard input.
type editor[T crud.Record] struct {
	title  string
	fields []*field[T]
	focus  int
}

func newEditor[T crud.Record](title string, draft T, fields []*field[T]) *editor[T] {
	e := &editor[T]{title: title, fields: fields}
	for _, f := range fields {
		if f.kind == fieldText {
			f.input.SetValue(f.read(draft))
		}
	}
	e.setFocus(0)
	return e
}

func (e *editor[T]) setFocus(i int) {
	if len(e.fields) == 0 {
		return
	}
	n := len(e.fields)
	e.focus = ((i % n) + n) % n
	for idx, f := range e.fields {
		if f.kind != fieldText {
			continue
		}
		if idx == e.focus {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
}

func (e *editor[T]) focused() *field[T] {
	if len(e.fields) == 0 {
		return nil
	}
	return e.fields[e.focus]
}

// handleKey edits the draft. Submit and cancel are left to the caller.
func (e *editor[T]) handleKey(form *crud.Form[T], msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Tab), msg.String() == "down":
		e.setFocus(e.focus + 1)
		return nil
	case key.Matches(msg, keys.ShiftTab), msg.String() == "up":
		e.setFocus(e.focus - 1)
		return nil
	}

	f := e.focused()
	if f == nil || form.Submitting() {
		return nil
	}
	switch f.kind {
	case fieldSelect:
		step := 0
		switch {
		case key.Matches(msg, keys.Left):
			step = -1
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Toggle):
			step = 1
		}
		if step != 0 {
			next := f.cycle(f.read(form.Draft()), step)
			form.Set(func(d *T) { f.write(d, next) })
		}
		return nil
	case fieldToggle:
		if key.Matches(msg, keys.Toggle) || key.Matches(msg, keys.Left) || key.Matches(msg, keys.Right) {
			flipped := strconv.FormatBool(f.read(form.Draft()) != "true")
			form.Set(func(d *T) { f.write(d, flipped) })
		}
		return nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if after := f.input.Value(); after != before {
		form.Set(func(d *T) { f.write(d, after) })
	}
	return cmd
}

// render draws the form modal for form.
func (e *editor[T]) render(m Model, form *crud.Form[T]) string {
	styles := m.theme.Styles()
	draft := form.Draft()

	var b strings.Builder
	for i, f := range e.fields {
		label := padRight(f.label+":", 18)
		if i == e.focus {
			b.WriteString(styles.AccentText.Bold(true).Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		switch f.kind {
		case fieldText:
			b.WriteString(f.input.View())
		case fieldSelect:
			value := f.optionLabel(f.read(draft))
			style := styles.Text
			if f.read(draft) == "" {
				style = styles.FaintText
			}
			b.WriteString(styles.FaintText.Render("‹ ") + style.Render(value) + styles.FaintText.Render(" ›"))
		case fieldToggle:
			if f.read(draft) == "true" {
				b.WriteString(styles.SuccessText.Render("[x] " + statusActive))
			} else {
				b.WriteString(styles.MutedText.Render("[ ] " + statusInactive))
			}
		}
		b.WriteString("\n\n")
	}

	switch {
	case form.Submitting():
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Guardando..."))
		b.WriteString("\n\n")
	case form.Error() != "":
		b.WriteString(styles.DangerText.Render(form.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderHints("enter", "Guardar", "esc", "Cancelar", "tab", "Campo", "←/→", "Opción"))
	return m.renderModal(e.title, b.String(), LayoutFormWidth, "")
}
