package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/discografia/internal/logtail"
)

// logState holds the log view state.
type logState struct {
	entries []logtail.Entry
	plain   []string // one search line per entry
	follow  bool
	err     error

	searchActive bool
	searchQuery  string
	searchRegex  *regexp.Regexp
	searchInput  textinput.Model
	matches      []int
	matchIdx     int

	// Skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

type logLinesMsg struct {
	lines []string
	err   error
}

func (m *Model) initLogState() {
	ti := textinput.New()
	ti.Placeholder = "Buscar en el registro..."
	ti.CharLimit = 100
	m.logState = logState{follow: true, searchInput: ti, contentVersion: 1}
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 10), max(m.height-6, 1))
}

// updateLogViewport resizes the viewport and re-renders changed content.
func (m *Model) updateLogViewport() {
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = max(m.height-6, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = m.logState.contentVersion
	}
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// refreshLogs reads the tail of the log file off the event loop.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err != nil {
		return
	}
	m.logState.entries = logtail.ParseAll(msg.lines)
	m.logState.plain = make([]string, len(m.logState.entries))
	for i, e := range m.logState.entries {
		m.logState.plain[i] = formatEntry(e)
	}
	if m.logState.searchRegex != nil {
		m.findSearchMatches()
	}
	m.logState.contentVersion++
	m.updateLogViewport()
}

// formatEntry renders an entry as plain text.
func formatEntry(e logtail.Entry) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.Local().Format("2006-01-02 15:04:05"))
	}
	if e.Level != "" {
		parts = append(parts, strings.ToUpper(levelLabel(e.Level)))
	}
	parts = append(parts, e.Message)
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, fields)
	}
	return strings.Join(parts, " ")
}

func levelLabel(level string) string {
	if level == "warning" {
		return "warn"
	}
	return level
}

func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logState.err != nil {
		return bg.FillLine(bg.Render("No se pudo leer el registro: "+m.logState.err.Error(), styles.DangerText), width)
	}
	if len(m.logState.entries) == 0 {
		return bg.FillLine(bg.Render("Sin entradas en el registro", styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logState.matches))
	for _, idx := range m.logState.matches {
		matchSet[idx] = true
	}
	active := -1
	if m.logState.matchIdx < len(m.logState.matches) {
		active = m.logState.matches[m.logState.matchIdx]
	}

	var b strings.Builder
	for i, e := range m.logState.entries {
		var line string
		switch {
		case i == active:
			line = lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background)).
				Render(m.logState.plain[i])
		case matchSet[i]:
			line = bg.Render(m.logState.plain[i], styles.AccentText)
		default:
			line = m.colorizeEntry(e, styles, bg)
		}
		b.WriteString(bg.FillLine(line, width))
		if i < len(m.logState.entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) colorizeEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, bg.Render(e.Time.Local().Format("2006-01-02 15:04:05"), styles.FaintText))
	}
	if e.Level != "" {
		parts = append(parts, bg.Render(strings.ToUpper(levelLabel(e.Level)), m.levelStyle(e.Level, styles).Bold(true)))
	}
	parts = append(parts, bg.Render(e.Message, styles.Text))
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, bg.Render(fields, styles.MutedText))
	}
	return bg.Join(parts, " ")
}

func (m *Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "info":
		return styles.SuccessText
	case "warning", "warn":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	box := m.renderBox("Registro", m.logViewport.View(), m.width, m.height-3, true)
	return box + "\n" + m.renderLogStatus(styles.WithBackground(m.theme.Background), bg)
}

func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.searchActive {
		return bg.Render("/", styles.AccentText) + m.logState.searchInput.View()
	}
	if m.logState.searchRegex != nil {
		if len(m.logState.matches) == 0 {
			return bg.Render("Sin coincidencias: "+m.logState.searchQuery, styles.DangerText)
		}
		return bg.Render("/"+m.logState.searchQuery, styles.AccentText) +
			bg.Render(fmt.Sprintf(" %d/%d", m.logState.matchIdx+1, len(m.logState.matches)), styles.WarningText) +
			bg.Render("  n/N navegar, esc limpiar", styles.FaintText)
	}
	follow := "no"
	if m.logState.follow {
		follow = "sí"
	}
	status := fmt.Sprintf("%s  %d líneas  seguir: %s", truncate(m.logPath, 60), len(m.logState.entries), follow)
	return bg.Render(status, styles.FaintText)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		m.logState.searchInput.Focus()
	case key.Matches(msg, m.keys.NextMatch):
		m.stepSearchMatch(1)
	case key.Matches(msg, m.keys.PrevMatch):
		m.stepSearchMatch(-1)
	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}

func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		query := m.logState.searchInput.Value()
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		if query == "" {
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.findSearchMatches()
		m.scrollToSearchMatch()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.matches = nil
	m.logState.matchIdx = 0
	m.logState.contentVersion++
}

func (m *Model) findSearchMatches() {
	m.logState.matches = nil
	m.logState.matchIdx = 0
	if m.logState.searchRegex == nil {
		return
	}
	for i, line := range m.logState.plain {
		if m.logState.searchRegex.MatchString(line) {
			m.logState.matches = append(m.logState.matches, i)
		}
	}
	m.logState.contentVersion++
}

func (m *Model) stepSearchMatch(step int) {
	n := len(m.logState.matches)
	if n == 0 {
		return
	}
	m.logState.matchIdx = ((m.logState.matchIdx+step)%n + n) % n
	m.logState.contentVersion++
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

func (m *Model) scrollToSearchMatch() {
	if m.logState.matchIdx >= len(m.logState.matches) {
		return
	}
	target := m.logState.matches[m.logState.matchIdx]
	m.logState.follow = false
	m.logViewport.SetYOffset(max(target-m.logViewport.Height/2, 0))
}
