package catalog

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/crud"
)

var (
	_ crud.Service[Artist]     = (*api.Resource[Artist])(nil)
	_ crud.Service[ArtistType] = (*api.Resource[ArtistType])(nil)
)

// ArtistList is the artist controller; artist types are its lookup table.
type ArtistList = crud.List[Artist, ArtistType]

// ArtistTypeList is the artist type controller; artists are counted per type.
type ArtistTypeList = crud.List[ArtistType, Artist]

// Services bundles the two REST resources.
type Services struct {
	Artists *api.Resource[Artist]
	Types   *api.Resource[ArtistType]
}

// NewServices binds both endpoints to client.
func NewServices(client *api.Client) Services {
	return Services{
		Artists: api.NewResource(client, ArtistEndpoint()),
		Types:   api.NewResource(client, ArtistTypeEndpoint()),
	}
}

// NewArtistList wires the artist controller.
func NewArtistList(svc Services, session crud.SessionValidator, logger *logrus.Entry) *ArtistList {
	return crud.NewList(ArtistDescriptor(), crud.Options[Artist, ArtistType]{
		Service: svc.Artists,
		Aux:     svc.Types,
		AuxName: "artist types",
		Session: session,
		Logger:  logger,
	})
}

// NewArtistTypeList wires the artist type controller. Counts reports how many
// artists reference each type.
func NewArtistTypeList(svc Services, session crud.SessionValidator, logger *logrus.Entry) *ArtistTypeList {
	return crud.NewList(ArtistTypeDescriptor(), crud.Options[ArtistType, Artist]{
		Service: svc.Types,
		Aux:     svc.Artists,
		AuxName: "artists",
		AuxRef:  func(a Artist) string { return a.ArtistTypeID.String() },
		Session: session,
		Logger:  logger,
	})
}

// TypesByID indexes types for TypeName.
func TypesByID(types []ArtistType) map[string]ArtistType {
	return crud.IndexBy(types, typeKey)
}

// ArtistTypes indexes the types loaded alongside the artist list.
func ArtistTypes(l *ArtistList) map[string]ArtistType {
	return l.AuxIndex(typeKey)
}

func typeKey(t ArtistType) string { return t.ID.String() }

// SelectableTypes returns the active types sorted by description, plus the
// current selection when it is inactive so editing never drops it silently.
func SelectableTypes(types []ArtistType, current api.ID) []ArtistType {
	out := make([]ArtistType, 0, len(types))
	for _, t := range types {
		if t.Active || (current != "" && t.ID == current) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
	})
	return out
}
