package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/discografia/internal/crud"
)

// section is a record view mounted in the main screen.
type section interface {
	load() tea.Cmd
	handleKey(msg tea.KeyMsg, keys keyMap) tea.Cmd
	update(msg tea.Msg) (tea.Cmd, bool)
	modalOpen() bool
	busy() bool
	close()
	render(m Model, width, height int) string
	renderModal(m Model) string
}

// Messages carry the list they were started from. A list closed in the
// meantime ignores them.

type loadedMsg[T crud.Record, A any] struct {
	list *crud.List[T, A]
	res  crud.LoadResult[T, A]
}

type submittedMsg[T crud.Record, A any] struct {
	list *crud.List[T, A]
	res  crud.SubmitResult[T]
}

type deactivatedMsg[T crud.Record, A any] struct {
	list *crud.List[T, A]
	res  crud.DeactivateResult[T, A]
}

type expiredMsg[T crud.Record, A any] struct {
	list *crud.List[T, A]
	e    crud.Expiry
}

// sessionLostMsg asks the model to return to the login screen.
type sessionLostMsg struct{}

// table describes how a pane renders its collection.
type table[T crud.Record, A any] struct {
	headers []string
	widths  []int
	// compact lists the column indexes kept on narrow terminals.
	compact []int
	rows    func(l *crud.List[T, A], items []T) [][]string
	status  int // index of the status column, -1 when none
}

// paneDef holds the per-resource parts of a pane.
type paneDef[T crud.Record, A any] struct {
	title       string
	empty       string
	table       table[T, A]
	fields      func(l *crud.List[T, A], draft T) []*field[T]
	formTitle   func(edit bool) string
	deleteLabel func(l *crud.List[T, A], rec T) string
}

// pane adapts a crud.List to the Bubble Tea event loop. Fetch, Submit and
// Deactivate run inside commands; every Apply happens in update.
type pane[T crud.Record, A any] struct {
	ctx      context.Context
	list     *crud.List[T, A]
	def      paneDef[T, A]
	cursor   int
	editor   *editor[T]
	inFlight bool
}

func newPane[T crud.Record, A any](ctx context.Context, list *crud.List[T, A], def paneDef[T, A]) *pane[T, A] {
	return &pane[T, A]{ctx: ctx, list: list, def: def}
}

func (p *pane[T, A]) load() tea.Cmd {
	if !p.list.BeginLoad() {
		return nil
	}
	return p.fetch()
}

func (p *pane[T, A]) fetch() tea.Cmd {
	list, ctx, seq := p.list, p.ctx, p.list.LoadSeq()
	return func() tea.Msg {
		res := list.Fetch(ctx)
		res.Seq = seq
		return loadedMsg[T, A]{list: list, res: res}
	}
}

func (p *pane[T, A]) effects(eff crud.Effects) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Reload {
		cmds = append(cmds, p.fetch())
	}
	for _, e := range eff.Expiries {
		cmds = append(cmds, expireAfter(p.list, e))
	}
	return tea.Batch(cmds...)
}

func expireAfter[T crud.Record, A any](list *crud.List[T, A], e crud.Expiry) tea.Cmd {
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return expiredMsg[T, A]{list: list, e: e}
	})
}

func (p *pane[T, A]) update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case loadedMsg[T, A]:
		if msg.list != p.list {
			return nil, true
		}
		cmd := p.effects(p.list.ApplyLoad(msg.res))
		p.cursor = clamp(p.cursor, len(p.list.Items()))
		return cmd, true

	case submittedMsg[T, A]:
		if msg.list != p.list {
			return nil, true
		}
		cmd := p.effects(p.list.ApplySubmit(msg.res))
		if p.list.Form() == nil {
			p.editor = nil
		}
		return cmd, true

	case deactivatedMsg[T, A]:
		if msg.list != p.list {
			return nil, true
		}
		p.inFlight = false
		cmd := p.effects(p.list.ApplyDeactivate(msg.res))
		p.cursor = clamp(p.cursor, len(p.list.Items()))
		return cmd, true

	case expiredMsg[T, A]:
		if msg.list == p.list {
			p.list.Expire(msg.e)
		}
		return nil, true
	}
	return nil, false
}

func (p *pane[T, A]) selected() (T, bool) {
	items := p.list.Items()
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[clamp(p.cursor, len(items))], true
}

func (p *pane[T, A]) handleKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	if form := p.list.Form(); form != nil {
		return p.handleFormKey(form, msg, keys)
	}
	if gate := p.list.Gate(); gate != nil {
		return p.handleGateKey(gate, msg)
	}

	n := len(p.list.Items())
	switch {
	case key.Matches(msg, keys.Down):
		p.cursor = clamp(p.cursor+1, n)
	case key.Matches(msg, keys.Up):
		p.cursor = clamp(p.cursor-1, n)
	case key.Matches(msg, keys.Top):
		p.cursor = 0
	case key.Matches(msg, keys.Bottom):
		p.cursor = clamp(n-1, n)
	case key.Matches(msg, keys.HalfPageDown):
		p.cursor = clamp(p.cursor+10, n)
	case key.Matches(msg, keys.HalfPageUp):
		p.cursor = clamp(p.cursor-10, n)

	case key.Matches(msg, keys.New):
		if form := p.list.RequestCreate(); form != nil {
			p.openEditor(form)
		}
	case key.Matches(msg, keys.Edit):
		if rec, ok := p.selected(); ok {
			if form := p.list.RequestEdit(rec); form != nil {
				p.openEditor(form)
			}
		}
	case key.Matches(msg, keys.Delete):
		rec, ok := p.selected()
		if !ok || p.inFlight {
			return nil
		}
		if _, err := p.list.RequestDeactivate(rec); errors.Is(err, crud.ErrSessionInvalid) {
			return sessionLost
		}
	case key.Matches(msg, keys.Reload):
		return p.load()
	case key.Matches(msg, keys.Dismiss):
		p.list.DismissError()
	}
	return nil
}

func (p *pane[T, A]) openEditor(form *crud.Form[T]) {
	draft := form.Draft()
	p.editor = newEditor(p.def.formTitle(form.IsEdit()), draft, p.def.fields(p.list, draft))
}

func (p *pane[T, A]) handleFormKey(form *crud.Form[T], msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch form.Key(msg.String()) {
	case crud.FormCancel:
		p.list.CancelForm()
		p.editor = nil
		return nil
	case crud.FormSubmit:
		sub, err := p.list.SubmitForm()
		switch {
		case errors.Is(err, crud.ErrSessionInvalid):
			return sessionLost
		case err != nil:
			return nil
		}
		list, ctx := p.list, p.ctx
		return func() tea.Msg {
			return submittedMsg[T, A]{list: list, res: list.Submit(ctx, sub)}
		}
	}
	if msg.String() == "enter" {
		return nil
	}
	if p.editor == nil {
		p.openEditor(form)
	}
	return p.editor.handleKey(form, msg, keys)
}

func (p *pane[T, A]) handleGateKey(gate *crud.Gate[T], msg tea.KeyMsg) tea.Cmd {
	switch gate.Key(msg.String()) {
	case crud.GateCancel:
		p.list.CancelDeactivate()
	case crud.GateConfirm:
		d, err := p.list.ConfirmDeactivate()
		switch {
		case errors.Is(err, crud.ErrSessionInvalid):
			return sessionLost
		case err != nil:
			return nil
		}
		p.inFlight = true
		list, ctx := p.list, p.ctx
		return func() tea.Msg {
			return deactivatedMsg[T, A]{list: list, res: list.Deactivate(ctx, d)}
		}
	}
	return nil
}

func (p *pane[T, A]) modalOpen() bool {
	return p.list.Form() != nil || p.list.Gate() != nil
}

func (p *pane[T, A]) busy() bool {
	if p.inFlight || p.list.Phase() == crud.PhaseLoading {
		return true
	}
	form := p.list.Form()
	return form != nil && form.Submitting()
}

func (p *pane[T, A]) close() {
	p.list.Close()
	p.editor = nil
}

// render draws banners and the table.
func (p *pane[T, A]) render(m Model, width, height int) string {
	styles := m.theme.Styles()
	var lines []string

	if msg := p.list.Error(); msg != "" {
		lines = append(lines, styles.ErrorBanner.Width(width).Render(msg+"  (x para ocultar)"))
	}
	if msg := p.list.Notice(); msg != "" {
		lines = append(lines, styles.NoticeBanner.Width(width).Render(msg))
	}

	items := p.list.Items()
	switch {
	case !p.list.Loaded() && p.list.Phase() == crud.PhaseLoading:
		lines = append(lines, "", m.spinner.View()+" "+styles.MutedText.Render("Cargando..."))
	case len(items) == 0:
		lines = append(lines, "", styles.MutedText.Render(p.def.empty))
	default:
		lines = append(lines, p.renderTable(m, items, width, height-len(lines))...)
	}

	body := strings.Join(lines, "\n")
	return m.renderBox(p.def.title, body, width, height, true)
}

func (p *pane[T, A]) columns(width int) []int {
	all := make([]int, len(p.def.table.headers))
	for i := range all {
		all[i] = i
	}
	if width >= LayoutCompactWidth || len(p.def.table.compact) == 0 {
		return all
	}
	return p.def.table.compact
}

func (p *pane[T, A]) renderTable(m Model, items []T, width, height int) []string {
	styles := m.theme.Styles()
	t := p.def.table
	cols := p.columns(width)
	rows := t.rows(p.list, items)

	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, cell(t.headers[c], t.widths[c]))
	}
	out := []string{styles.AccentText.Bold(true).Render(strings.Join(header, " "))}

	visible := max(height-4, 1)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(len(items), start+visible)

	for i := start; i < end; i++ {
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			value := cell(rows[i][c], t.widths[c])
			if c == t.status && i != p.cursor {
				value = styles.StatusStyle(rows[i][c]).Render(truncate(rows[i][c], t.widths[c]-2))
				value = padRight(value, t.widths[c])
			}
			parts = append(parts, value)
		}
		line := strings.Join(parts, " ")
		switch {
		case i == p.cursor:
			line = styles.Selected.Width(width - 4).Render(line)
		case p.list.Highlighted(items[i].RecordID()):
			line = styles.Highlighted.Width(width - 4).Render(line)
		default:
			line = styles.Text.Render(line)
		}
		out = append(out, line)
	}

	if rec, ok := p.selected(); ok && rec.IsActive() && p.def.deleteLabel != nil {
		out = append(out, "", m.renderHints("n", "Nuevo", "enter", "Editar", "d", p.def.deleteLabel(p.list, rec)))
	}
	return out
}

// renderModal draws the open form or confirmation gate, or "".
func (p *pane[T, A]) renderModal(m Model) string {
	if form := p.list.Form(); form != nil && p.editor != nil {
		return p.editor.render(m, form)
	}
	if gate := p.list.Gate(); gate != nil {
		return m.renderConfirm(gate.Prompt())
	}
	return ""
}

// renderBox draws a bordered panel with a title.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(max(width-2, 10)).
		Height(max(height-3, 1))
	return styles.AccentText.Bold(true).Render(" "+title) + "\n" + box.Render(content)
}

func sessionLost() tea.Msg { return sessionLostMsg{} }
