package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/crud"
)

// Gender is the artist gender enum as the backend spells it.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the selectable values in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Label returns the Spanish label shown in tables and forms.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Masculino"
	case GenderFemale:
		return "Femenino"
	case GenderOther:
		return "Otro"
	case "":
		return "Seleccionar género"
	}
	return string(g)
}

const birthDateLayout = "2006-01-02"

// Artist mirrors /artist records.
type Artist struct {
	ID           api.ID `json:"id"`
	ArtistTypeID api.ID `json:"id_artist_type" validate:"present"`
	Name         string `json:"name" validate:"present"`
	Lastname     string `json:"lastname" validate:"present"`
	Gender       Gender `json:"gender" validate:"present,oneof=Male Female Other"`
	DateBirth    string `json:"date_birth" validate:"present,datetime=2006-01-02"`
	Active       bool   `json:"active"`

	// Description is never edited here; it only round-trips into the PUT body.
	Description string `json:"description,omitempty" validate:"-"`
}

// RecordID implements crud.Record.
func (a Artist) RecordID() string { return a.ID.String() }

// IsActive implements crud.Record.
func (a Artist) IsActive() bool { return a.Active }

// FullName joins name and lastname.
func (a Artist) FullName() string {
	return strings.TrimSpace(a.Name + " " + a.Lastname)
}

// BirthDate parses DateBirth, accepting plain dates and RFC 3339 timestamps.
func (a Artist) BirthDate() (time.Time, bool) {
	value := strings.TrimSpace(a.DateBirth)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{birthDateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var artistMessages = map[string]string{
	"ArtistTypeID": "El tipo de artista es requerido",
	"Name":         "Nombre y apellido son requeridos",
	"Lastname":     "Nombre y apellido son requeridos",
	"Gender":       "El género es requerido",
	"DateBirth":    "La fecha de nacimiento es requerida",
}

// ValidateArtist checks type, name and lastname, gender and birth date in
// that order and reports only the first failure.
func ValidateArtist(a Artist) *crud.ValidationError {
	return firstFailure(a, artistMessages)
}

// ArtistEndpoint describes /artist. Reads are public. The PUT body is
// id_artist_type, name, description and active; lastname, gender and
// date_birth are only sent on create.
func ArtistEndpoint() api.Endpoint[Artist] {
	return api.Endpoint[Artist]{
		Path: "/artist",
		CreateBody: func(a Artist) any {
			return map[string]any{
				"id_artist_type": a.ArtistTypeID,
				"name":           a.Name,
				"lastname":       a.Lastname,
				"gender":         a.Gender,
				"date_birth":     a.DateBirth,
				"active":         a.Active,
			}
		},
		UpdateBody: func(a Artist) any {
			body := map[string]any{
				"id_artist_type": a.ArtistTypeID,
				"name":           a.Name,
				"active":         a.Active,
			}
			if a.Description != "" {
				body["description"] = a.Description
			}
			return body
		},
	}
}

// ArtistDescriptor parameterizes the CRUD controllers for artists.
func ArtistDescriptor() crud.Descriptor[Artist] {
	return crud.Descriptor[Artist]{
		Resource: "artist",
		Blank: func() Artist {
			return Artist{Active: true}
		},
		Draft: func(a Artist) Artist {
			if t, ok := a.BirthDate(); ok {
				a.DateBirth = t.Format(birthDateLayout)
			}
			return a
		},
		Validate: ValidateArtist,
		WithID: func(a Artist, id string) Artist {
			a.ID = api.ID(id)
			return a
		},
		Confirm: func(a Artist, _ int) crud.Prompt {
			return crud.Prompt{
				Title:        "Eliminar Artista",
				Message:      fmt.Sprintf("¿Estás seguro de eliminar el artista \"%s\"?\n\nEsta acción no se puede deshacer.", a.Name),
				ConfirmLabel: "Eliminar",
				Hard:         true,
			}
		},
		Messages: crud.Messages{
			Created:          "Artista creado exitosamente",
			Updated:          "Artista actualizado exitosamente",
			Deleted:          "Artista eliminado exitosamente",
			Deactivated:      "Artista eliminado exitosamente",
			LoadFailed:       "Error al cargar los artistas",
			SaveFailed:       "Error al guardar el artista",
			DeleteFailed:     "Error al eliminar el artista",
			DeactivateFailed: "Error al eliminar el artista",
		},
	}
}

// TypeNotFound is shown when an artist's type cannot be resolved.
const TypeNotFound = "Tipo no encontrado"

// TypeName resolves the artist's type description through the loaded types.
func TypeName(a Artist, types map[string]ArtistType) string {
	if t, ok := types[a.ArtistTypeID.String()]; ok && strings.TrimSpace(t.Description) != "" {
		return t.Description
	}
	return TypeNotFound
}
