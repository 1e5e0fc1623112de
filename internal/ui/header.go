package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var viewTabs = []struct {
	view  View
	key   string
	label string
}{
	{ViewArtists, "1", "Artistas"},
	{ViewTypes, "2", "Tipos"},
	{ViewLogs, "3", "Registro"},
}

// renderHeader renders the top bar: logo, view tabs and session.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("discografia", styles.Logo)}

	tabs := make([]string, 0, len(viewTabs))
	for _, t := range viewTabs {
		label := t.key + " " + t.label
		if t.view == m.currentView {
			tabs = append(tabs, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(" "+label+" ", styles.MutedText))
		}
	}
	parts = append(parts, bg.Join(tabs, " "))

	if m.busy() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}

	right := m.sessionLabel(styles, bg)
	left := bg.Join(parts, "  ")
	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	content := left
	if gap > 0 && right != "" {
		content = left + bg.Spaces(gap) + right
	}
	return styles.Header.Width(m.width).Render(content)
}

func (m Model) sessionLabel(styles Styles, bg BgStyle) string {
	name := m.snapshot.User.DisplayName()
	if name == "" {
		return ""
	}
	out := bg.Render(name, styles.Text)
	if exp := m.snapshot.ExpiresAt; !exp.IsZero() {
		out += bg.Render("  sesión hasta "+exp.Local().Format("15:04"), styles.FaintText)
	}
	return out
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		follow := "Pausar"
		if !m.logState.follow {
			follow = "Seguir"
		}
		commands = []cmd{
			{"Space", follow},
			{"/", "Buscar"},
			{"n/N", "Sig/Ant"},
			{"r", "Recargar"},
			{"tab", "Vista"},
			{"?", "Ayuda"},
		}
	default:
		commands = []cmd{
			{"n", "Nuevo"},
			{"enter", "Editar"},
			{"d", "Eliminar"},
			{"r", "Recargar"},
			{"j/k", "Navegar"},
			{"tab", "Vista"},
			{"L", "Salir de la cuenta"},
			{"?", "Ayuda"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
