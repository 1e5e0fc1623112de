package catalog

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/api/apitest"
	"github.com/five82/discografia/internal/crud"
)

type tokenString string

func (t tokenString) Token() string { return string(t) }

type liveSession bool

func (s liveSession) Validate() bool { return bool(s) }

func newBackend(t *testing.T) (*apitest.Server, Services) {
	t.Helper()
	srv := apitest.New(t, "tok")
	srv.Collection("/artist", true)
	srv.Collection("/artist_type", false)
	client, err := api.NewClient(srv.URL(), api.WithTokenSource(tokenString("tok")))
	require.NoError(t, err)
	return srv, NewServices(client)
}

func validArtist() Artist {
	return Artist{
		ArtistTypeID: "1",
		Name:         "Mercedes",
		Lastname:     "Sosa",
		Gender:       GenderFemale,
		DateBirth:    "1935-07-09",
		Active:       true,
	}
}

func loadAll[T crud.Record, A any](t *testing.T, l *crud.List[T, A]) crud.Effects {
	t.Helper()
	require.True(t, l.BeginLoad())
	return l.ApplyLoad(l.Fetch(t.Context()))
}

func TestValidateArtistOrder(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Artist)
		field string
		want  string
	}{
		{name: "valid", edit: func(*Artist) {}},
		{name: "type", edit: func(a *Artist) { a.ArtistTypeID = ""; a.Gender = "" }, field: "ArtistTypeID", want: "El tipo de artista es requerido"},
		{name: "name", edit: func(a *Artist) { a.Name = "  " }, field: "Name", want: "Nombre y apellido son requeridos"},
		{name: "lastname", edit: func(a *Artist) { a.Lastname = "" }, field: "Lastname", want: "Nombre y apellido son requeridos"},
		{name: "gender missing", edit: func(a *Artist) { a.Gender = ""; a.DateBirth = "" }, field: "Gender", want: "El género es requerido"},
		{name: "gender unknown", edit: func(a *Artist) { a.Gender = "Robot" }, field: "Gender", want: "El género es requerido"},
		{name: "birth missing", edit: func(a *Artist) { a.DateBirth = "" }, field: "DateBirth", want: "La fecha de nacimiento es requerida"},
		{name: "birth malformed", edit: func(a *Artist) { a.DateBirth = "09/07/1935" }, field: "DateBirth", want: "La fecha de nacimiento es requerida"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validArtist()
			tc.edit(&a)
			verr := ValidateArtist(a)
			if tc.want == "" {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.want, verr.Message)
		})
	}
}

func TestValidateArtistType(t *testing.T) {
	assert.Nil(t, ValidateArtistType(ArtistType{Description: "Banda"}))
	verr := ValidateArtistType(ArtistType{Description: " \t"})
	require.NotNil(t, verr)
	assert.Equal(t, "La descripción es requerida", verr.Message)
}

func TestArtistTypeDecodesEitherID(t *testing.T) {
	var types []ArtistType
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 3, "description": "Solista", "active": true},
		{"_id": "abc", "description": "Banda", "active": false}
	]`), &types))
	require.Len(t, types, 2)
	assert.Equal(t, api.ID("3"), types[0].ID)
	assert.Equal(t, api.ID("abc"), types[1].ID)
	assert.False(t, types[1].IsActive())
}

func TestArtistDraftTrimsTimestamp(t *testing.T) {
	a := validArtist()
	a.DateBirth = "1935-07-09T00:00:00.000Z"
	draft := ArtistDescriptor().Draft(a)
	assert.Equal(t, "1935-07-09", draft.DateBirth)
	assert.Nil(t, ValidateArtist(draft))
}

func TestGenderLabels(t *testing.T) {
	assert.Equal(t, "Masculino", GenderMale.Label())
	assert.Equal(t, "Femenino", GenderFemale.Label())
	assert.Equal(t, "Otro", GenderOther.Label())
	assert.Equal(t, "Seleccionar género", Gender("").Label())
}

func TestArtistTypePrompts(t *testing.T) {
	typ := ArtistType{ID: "1", Description: "Banda", Active: true}

	soft := artistTypePrompt(typ, 3)
	assert.False(t, soft.Hard)
	assert.Equal(t, "Desactivar Tipo de Artista", soft.Title)
	assert.Contains(t, soft.Message, "3 artista(s) asociado(s)")

	hard := artistTypePrompt(typ, 0)
	assert.True(t, hard.Hard)
	assert.Equal(t, "Eliminar Tipo de Artista", hard.Title)
	assert.Contains(t, hard.Message, `"Banda"`)

	assert.Equal(t, "Desactivar", DeleteLabel(3))
	assert.Equal(t, "Eliminar", DeleteLabel(0))
	assert.Equal(t, "3 artistas", ArtistCountLabel(3))
}

func TestTypeNameFallsBack(t *testing.T) {
	types := TypesByID([]ArtistType{{ID: "1", Description: "Solista"}, {ID: "2", Description: " "}})
	a := validArtist()
	assert.Equal(t, "Solista", TypeName(a, types))
	a.ArtistTypeID = "2"
	assert.Equal(t, TypeNotFound, TypeName(a, types))
	a.ArtistTypeID = "9"
	assert.Equal(t, TypeNotFound, TypeName(a, types))
	assert.Equal(t, TypeNotFound, TypeName(a, nil))
}

func TestSelectableTypes(t *testing.T) {
	types := []ArtistType{
		{ID: "1", Description: "solista", Active: true},
		{ID: "2", Description: "Banda", Active: true},
		{ID: "3", Description: "Dúo", Active: false},
	}
	got := SelectableTypes(types, "")
	require.Len(t, got, 2)
	assert.Equal(t, "Banda", got[0].Description)

	got = SelectableTypes(types, "3")
	assert.Len(t, got, 3)
}

func TestCreateArtistTypeScenario(t *testing.T) {
	srv, svc := newBackend(t)
	list := NewArtistTypeList(svc, liveSession(true), nil)
	loadAll(t, list)
	assert.Empty(t, list.Items())

	list.RequestCreate().Set(func(at *ArtistType) { at.Description = "Banda" })
	sub, err := list.SubmitForm()
	require.NoError(t, err)
	eff := list.ApplySubmit(list.Submit(t.Context(), sub))
	require.True(t, eff.Reload)

	eff = list.ApplyLoad(list.Fetch(t.Context()))
	assert.NotEmpty(t, eff.Expiries)
	assert.Equal(t, "Tipo de artista creado exitosamente", list.Notice())
	require.Len(t, list.Items(), 1)
	assert.Equal(t, "Banda", list.Items()[0].Description)
	assert.True(t, list.Items()[0].Active)
	assert.True(t, list.Highlighted(list.Items()[0].RecordID()))

	posts := 0
	for _, req := range srv.Requests() {
		if req.Method == http.MethodPost {
			posts++
			assert.Equal(t, map[string]any{"description": "Banda", "active": true}, req.Body)
		}
	}
	assert.Equal(t, 1, posts)
}

func TestDeactivateReferencedTypeScenario(t *testing.T) {
	srv, svc := newBackend(t)
	srv.Seed("/artist_type", map[string]any{"id": 7, "description": "Banda", "active": true})
	for _, name := range []string{"Charly", "Nito", "Pedro"} {
		srv.Seed("/artist", map[string]any{"id_artist_type": 7, "name": name, "lastname": "X", "gender": "Male", "date_birth": "1951-10-23", "active": true})
	}

	list := NewArtistTypeList(svc, liveSession(true), nil)
	loadAll(t, list)
	require.Equal(t, 3, list.Dependents("7"))

	gate, err := list.RequestDeactivate(list.Items()[0])
	require.NoError(t, err)
	assert.Contains(t, gate.Prompt().Message, "3 artista(s) asociado(s)")
	assert.False(t, gate.Prompt().Hard)

	d, err := list.ConfirmDeactivate()
	require.NoError(t, err)
	list.ApplyDeactivate(list.Deactivate(t.Context(), d))

	assert.Equal(t, "Tipo de artista desactivado exitosamente", list.Notice())
	require.Len(t, list.Items(), 1)
	assert.False(t, list.Items()[0].Active)
	assert.Equal(t, 3, list.Dependents("7"))

	var deletes int
	for _, req := range srv.Requests() {
		if req.Method == http.MethodDelete {
			deletes++
			assert.Equal(t, "/artist_type/7", req.Path)
		}
	}
	assert.Equal(t, 1, deletes)
}

func TestArtistListSurvivesTypeLoadFailure(t *testing.T) {
	srv, svc := newBackend(t)
	srv.Seed("/artist_type", map[string]any{"id": 1, "description": "Solista", "active": true})
	srv.Seed("/artist",
		map[string]any{"id_artist_type": 1, "name": "Mercedes", "lastname": "Sosa", "gender": "Female", "date_birth": "1935-07-09", "active": true},
		map[string]any{"id_artist_type": 1, "name": "Atahualpa", "lastname": "Yupanqui", "gender": "Male", "date_birth": "1908-01-31", "active": true},
	)
	srv.Fail(http.MethodGet, "/artist_type", http.StatusInternalServerError, "caído")

	list := NewArtistList(svc, liveSession(true), nil)
	loadAll(t, list)

	assert.Empty(t, list.Error())
	require.Len(t, list.Items(), 2)
	types := TypesByID(list.Aux())
	for _, a := range list.Items() {
		assert.Equal(t, TypeNotFound, TypeName(a, types))
	}

	srv.ClearFailures()
	loadAll(t, list)
	types = TypesByID(list.Aux())
	assert.Equal(t, "Solista", TypeName(list.Items()[0], types))
}

func TestArtistMissingGenderNeverCallsService(t *testing.T) {
	srv, svc := newBackend(t)
	list := NewArtistList(svc, liveSession(true), nil)
	loadAll(t, list)
	before := len(srv.Requests())

	form := list.RequestCreate()
	form.Set(func(a *Artist) {
		*a = validArtist()
		a.Gender = ""
	})
	_, err := list.SubmitForm()
	require.Error(t, err)
	assert.Equal(t, "El género es requerido", form.Error())
	assert.Len(t, srv.Requests(), before)
}

func TestArtistUpdateSendsObservedBody(t *testing.T) {
	srv, svc := newBackend(t)
	srv.Seed("/artist", map[string]any{"id": 5, "id_artist_type": 1, "name": "Mercedes", "lastname": "Sosa", "gender": "Female", "date_birth": "1935-07-09T00:00:00Z", "active": true})

	list := NewArtistList(svc, liveSession(true), nil)
	loadAll(t, list)
	form := list.RequestEdit(list.Items()[0])
	assert.Equal(t, "1935-07-09", form.Draft().DateBirth)
	form.Set(func(a *Artist) { a.Name = "La Negra" })

	sub, err := list.SubmitForm()
	require.NoError(t, err)
	res := list.Submit(t.Context(), sub)
	require.NoError(t, res.Err)

	reqs := srv.Requests()
	put := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, "/artist/5", put.Path)
	assert.Equal(t, map[string]any{"id_artist_type": "1", "name": "La Negra", "active": true}, put.Body)
}

func TestArtistCreateWithoutBodyGetsPlaceholder(t *testing.T) {
	srv, svc := newBackend(t)
	srv.EmptyBodies(true)
	list := NewArtistList(svc, liveSession(true), nil)
	loadAll(t, list)

	calls := 0
	form := crud.NewForm(ArtistDescriptor(), nil, func(saved Artist, isEdit bool) {
		calls++
		assert.False(t, isEdit)
		assert.NotEmpty(t, saved.ID)
	})
	form.Set(func(a *Artist) { *a = validArtist() })
	sub, err := form.BeginSubmit(liveSession(true))
	require.NoError(t, err)
	res := crud.Submit(t.Context(), svc.Artists, sub)
	require.NoError(t, res.Err)
	assert.True(t, res.Synthesized)
	assert.True(t, form.Finish(res))
	assert.Equal(t, 1, calls)
}

func TestArtistTypeLoadSkippedWithoutSession(t *testing.T) {
	srv, svc := newBackend(t)
	list := NewArtistTypeList(svc, liveSession(false), nil)
	assert.False(t, list.BeginLoad())
	assert.Empty(t, srv.Requests())
}
