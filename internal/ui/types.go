package ui

import (
	"context"

	"github.com/five82/discografia/internal/catalog"
)

type artistTypePane = pane[catalog.ArtistType, catalog.Artist]

func newArtistTypePane(ctx context.Context, list *catalog.ArtistTypeList) *artistTypePane {
	return newPane(ctx, list, paneDef[catalog.ArtistType, catalog.Artist]{
		title: "Tipos de Artista",
		empty: "No hay tipos de artista registrados",
		table: table[catalog.ArtistType, catalog.Artist]{
			headers: []string{"ID", "Descripción", "Artistas", "Estado"},
			widths:  []int{10, 32, 12, 10},
			compact: []int{1, 2, 3},
			rows:    artistTypeRows,
			status:  3,
		},
		fields: func(*catalog.ArtistTypeList, catalog.ArtistType) []*field[catalog.ArtistType] {
			return []*field[catalog.ArtistType]{
				textField("Descripción", "Ej: Cantante", 100,
					func(t catalog.ArtistType) string { return t.Description },
					func(t *catalog.ArtistType, v string) { t.Description = v }),
				toggleField("Activo",
					func(t catalog.ArtistType) bool { return t.Active },
					func(t *catalog.ArtistType, v bool) { t.Active = v }),
			}
		},
		formTitle: func(edit bool) string {
			if edit {
				return "Editar Tipo de Artista"
			}
			return "Nuevo Tipo de Artista"
		},
		deleteLabel: func(l *catalog.ArtistTypeList, t catalog.ArtistType) string {
			return catalog.DeleteLabel(l.Dependents(t.RecordID()))
		},
	})
}

func artistTypeRows(l *catalog.ArtistTypeList, items []catalog.ArtistType) [][]string {
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{
			t.ID.String(),
			t.Description,
			catalog.ArtistCountLabel(l.Dependents(t.RecordID())),
			statusLabel(t.Active),
		})
	}
	return rows
}
