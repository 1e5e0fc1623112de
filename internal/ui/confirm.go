package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/discografia/internal/crud"
)

// renderConfirm draws the confirmation gate. Hard prompts use the danger
// border, soft ones the warning border.
func (m Model) renderConfirm(p crud.Prompt) string {
	styles := m.theme.Styles()
	border := m.theme.Warning
	labelStyle := styles.WarningText.Bold(true)
	if p.Hard {
		border = m.theme.Danger
		labelStyle = styles.DangerText
	}

	width := 56
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width - 6).Render(styles.Text.Render(p.Message)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("y/enter") + styles.FaintText.Render(": "+p.ConfirmLabel))
	b.WriteString(styles.FaintText.Render("  •  "))
	b.WriteString(styles.AccentText.Render("n/esc") + styles.FaintText.Render(": Cancelar"))

	return m.renderModal(p.Title, b.String(), width, border)
}
