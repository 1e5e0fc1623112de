package ui

import (
	"context"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/catalog"
	"github.com/five82/discografia/internal/crud"
)

type artistPane = pane[catalog.Artist, catalog.ArtistType]

func newArtistPane(ctx context.Context, list *catalog.ArtistList) *artistPane {
	return newPane(ctx, list, paneDef[catalog.Artist, catalog.ArtistType]{
		title: "Artistas",
		empty: "No hay artistas registrados",
		table: table[catalog.Artist, catalog.ArtistType]{
			headers: []string{"Nombre", "Apellido", "Tipo", "Género", "Nacimiento", "Estado"},
			widths:  []int{20, 20, 18, 10, 11, 10},
			compact: []int{0, 1, 2, 5},
			rows:    artistRows,
			status:  5,
		},
		fields: artistFields,
		formTitle: func(edit bool) string {
			if edit {
				return "Editar Artista"
			}
			return "Nuevo Artista"
		},
		deleteLabel: func(*crud.List[catalog.Artist, catalog.ArtistType], catalog.Artist) string {
			return "Eliminar"
		},
	})
}

func artistRows(l *catalog.ArtistList, items []catalog.Artist) [][]string {
	types := catalog.ArtistTypes(l)
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		birth := a.DateBirth
		if t, ok := a.BirthDate(); ok {
			birth = t.Format("2006-01-02")
		}
		rows = append(rows, []string{
			a.Name,
			orDash(a.Lastname),
			catalog.TypeName(a, types),
			orDash(a.Gender.Label()),
			orDash(birth),
			statusLabel(a.Active),
		})
	}
	return rows
}

func artistFields(l *catalog.ArtistList, draft catalog.Artist) []*field[catalog.Artist] {
	typeOptions := []option{{value: "", label: "Seleccionar tipo..."}}
	for _, t := range catalog.SelectableTypes(l.Aux(), draft.ArtistTypeID) {
		typeOptions = append(typeOptions, option{value: t.ID.String(), label: t.Description})
	}

	genderOptions := []option{{value: "", label: catalog.Gender("").Label()}}
	for _, g := range catalog.Genders {
		genderOptions = append(genderOptions, option{value: string(g), label: g.Label()})
	}

	return []*field[catalog.Artist]{
		selectField("Tipo de Artista", typeOptions,
			func(a catalog.Artist) string { return a.ArtistTypeID.String() },
			func(a *catalog.Artist, v string) { a.ArtistTypeID = api.ID(v) }),
		textField("Nombre", "Nombre del artista", 100,
			func(a catalog.Artist) string { return a.Name },
			func(a *catalog.Artist, v string) { a.Name = v }),
		textField("Apellido", "Apellido del artista", 100,
			func(a catalog.Artist) string { return a.Lastname },
			func(a *catalog.Artist, v string) { a.Lastname = v }),
		selectField("Género", genderOptions,
			func(a catalog.Artist) string { return string(a.Gender) },
			func(a *catalog.Artist, v string) { a.Gender = catalog.Gender(v) }),
		textField("Fecha de nacimiento", "AAAA-MM-DD", 10,
			func(a catalog.Artist) string { return a.DateBirth },
			func(a *catalog.Artist, v string) { a.DateBirth = v }),
		toggleField("Activo",
			func(a catalog.Artist) bool { return a.Active },
			func(a *catalog.Artist, v bool) { a.Active = v }),
	}
}

func statusLabel(active bool) string {
	if active {
		return statusActive
	}
	return statusInactive
}
