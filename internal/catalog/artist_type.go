package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/crud"
)

// ArtistType mirrors /artist_type records.
type ArtistType struct {
	ID          api.ID `json:"id"`
	Description string `json:"description" validate:"present"`
	Active      bool   `json:"active"`
}

// UnmarshalJSON accepts either "id" or "_id" as the identifier.
func (t *ArtistType) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          api.ID `json:"id"`
		MongoID     api.ID `json:"_id"`
		Description string `json:"description"`
		Active      bool   `json:"active"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	if t.ID == "" {
		t.ID = raw.MongoID
	}
	t.Description = raw.Description
	t.Active = raw.Active
	return nil
}

// RecordID implements crud.Record.
func (t ArtistType) RecordID() string { return t.ID.String() }

// IsActive implements crud.Record.
func (t ArtistType) IsActive() bool { return t.Active }

var artistTypeMessages = map[string]string{
	"Description": "La descripción es requerida",
}

// ValidateArtistType requires a non-blank description.
func ValidateArtistType(t ArtistType) *crud.ValidationError {
	return firstFailure(t, artistTypeMessages)
}

// ArtistTypeEndpoint describes /artist_type. Every request is authenticated.
func ArtistTypeEndpoint() api.Endpoint[ArtistType] {
	body := func(t ArtistType) any {
		return map[string]any{
			"description": t.Description,
			"active":      t.Active,
		}
	}
	return api.Endpoint[ArtistType]{
		Path:       "/artist_type",
		AuthReads:  true,
		CreateBody: body,
		UpdateBody: body,
	}
}

// ArtistTypeDescriptor parameterizes the CRUD controllers for artist types.
// Types with artists attached are deactivated rather than deleted; the
// backend call is identical, only the wording differs.
func ArtistTypeDescriptor() crud.Descriptor[ArtistType] {
	return crud.Descriptor[ArtistType]{
		Resource: "artist-type",
		Blank: func() ArtistType {
			return ArtistType{Active: true}
		},
		Validate: ValidateArtistType,
		WithID: func(t ArtistType, id string) ArtistType {
			t.ID = api.ID(id)
			return t
		},
		Confirm:              artistTypePrompt,
		RequireSessionToLoad: true,
		Messages: crud.Messages{
			Created:          "Tipo de artista creado exitosamente",
			Updated:          "Tipo de artista actualizado exitosamente",
			Deleted:          "Tipo de artista eliminado exitosamente",
			Deactivated:      "Tipo de artista desactivado exitosamente",
			LoadFailed:       "Error al cargar los datos",
			SaveFailed:       "Error al guardar el tipo de artista",
			DeleteFailed:     "Error al eliminar el tipo de artista",
			DeactivateFailed: "Error al desactivar el tipo de artista",
		},
	}
}

func artistTypePrompt(t ArtistType, dependents int) crud.Prompt {
	if dependents > 0 {
		return crud.Prompt{
			Title: "Desactivar Tipo de Artista",
			Message: fmt.Sprintf("El tipo \"%s\" tiene %d artista(s) asociado(s). Se desactivará pero se mantendrá en el sistema para conservar la integridad de los datos.",
				t.Description, dependents),
			ConfirmLabel: "Desactivar",
		}
	}
	return crud.Prompt{
		Title:        "Eliminar Tipo de Artista",
		Message:      fmt.Sprintf("Estás a punto de eliminar permanentemente el tipo de artista \"%s\". Esta acción no se puede deshacer.", t.Description),
		ConfirmLabel: "Eliminar",
		Hard:         true,
	}
}

// DeleteLabel is the row action label for a type with the given dependents.
func DeleteLabel(dependents int) string {
	if dependents > 0 {
		return "Desactivar"
	}
	return "Eliminar"
}

// ArtistCountLabel renders the per-type artist count column.
func ArtistCountLabel(n int) string {
	return fmt.Sprintf("%d artistas", n)
}
