package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderModal centers a bordered box holding title and body over the screen.
func (m Model) renderModal(title, body string, width int, border string) string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(width-6, 10))))
	b.WriteString("\n\n")
	b.WriteString(body)

	if border == "" {
		border = m.theme.Accent
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(width).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// renderHints renders "key: action" pairs separated by bullets.
func (m Model) renderHints(pairs ...string) string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, styles.AccentText.Render(pairs[i])+styles.FaintText.Render(": "+pairs[i+1]))
	}
	return strings.Join(parts, styles.FaintText.Render("  •  "))
}
