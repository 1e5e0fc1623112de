package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navegación",
			items: []helpItem{
				{"1/2/3", "Artistas/Tipos/Registro"},
				{"tab", "Siguiente vista"},
				{"j/k", "Subir/bajar"},
				{"g/G", "Inicio/final"},
			},
		},
		{
			title: "Registros",
			items: []helpItem{
				{"n", "Nuevo"},
				{"enter/e", "Editar"},
				{"d", "Eliminar o desactivar"},
				{"r", "Recargar"},
				{"x", "Ocultar error"},
			},
		},
		{
			title: "Formulario",
			items: []helpItem{
				{"tab", "Siguiente campo"},
				{"left/right", "Cambiar opción"},
				{"Space", "Activo sí/no"},
				{"enter", "Guardar"},
				{"esc", "Cancelar"},
			},
		},
		{
			title: "Registro",
			items: []helpItem{
				{"Space", "Seguir el registro"},
				{"/", "Buscar"},
				{"n/N", "Siguiente/anterior"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cambiar tema"},
				{"L", "Cerrar sesión"},
				{"?", "Ayuda"},
				{"q/ctrl+c", "Salir"},
			},
		},
	}

	var b strings.Builder
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return m.renderModal("Atajos de teclado", b.String(), 44, "")
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
