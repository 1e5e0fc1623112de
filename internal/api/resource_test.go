package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/discografia/internal/api/apitest"
)

type band struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Genre  string `json:"genre"`
	Active bool   `json:"active"`
}

func newBandResource(t *testing.T, token string, authReads bool) (*apitest.Server, *Resource[band]) {
	t.Helper()
	srv := apitest.New(t, "secret")
	srv.Collection("/band", !authReads)
	srv.Seed("/band",
		map[string]any{"id": 1, "name": "Soda", "genre": "rock", "active": true},
		map[string]any{"id": "2", "name": "Vilma", "genre": "pop", "active": true},
	)
	c, err := NewClient(srv.URL(), WithTokenSource(staticToken(token)))
	require.NoError(t, err)
	return srv, NewResource(c, Endpoint[band]{
		Path:      "/band",
		AuthReads: authReads,
		UpdateBody: func(b band) any {
			return map[string]any{"name": b.Name, "active": b.Active}
		},
	})
}

func TestResourcePublicReadsSendNoToken(t *testing.T) {
	srv, res := newBandResource(t, "secret", false)

	items, err := res.List(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ID("1"), items[0].ID)
	assert.Equal(t, ID("2"), items[1].ID)

	got, err := res.Get(t.Context(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Vilma", got.Name)

	for _, req := range srv.Requests() {
		assert.Empty(t, req.Authorization, req.Path)
	}
}

func TestResourceAuthenticatedReads(t *testing.T) {
	srv, res := newBandResource(t, "secret", true)

	_, err := res.List(t.Context())
	require.NoError(t, err)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer secret", reqs[0].Authorization)
}

func TestResourceRejectedToken(t *testing.T) {
	_, res := newBandResource(t, "stale", true)

	_, err := res.List(t.Context())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token inválido", err.Error())
}

func TestResourceCreateAndUpdateBodies(t *testing.T) {
	srv, res := newBandResource(t, "secret", false)

	created, err := res.Create(t.Context(), band{Name: "Cerati", Genre: "rock", Active: true})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Cerati", created.Name)

	updated, err := res.Update(t.Context(), created.ID.String(), band{Name: "Gustavo", Genre: "ignored", Active: true})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Gustavo", updated.Name)
	assert.Equal(t, "rock", updated.Genre)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "Bearer secret", reqs[0].Authorization)
	assert.Equal(t, map[string]any{"id": "", "name": "Cerati", "genre": "rock", "active": true}, reqs[0].Body)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/band/"+created.ID.String(), reqs[1].Path)
	assert.Equal(t, map[string]any{"name": "Gustavo", "active": true}, reqs[1].Body)
}

func TestResourceMutationsWithoutBodyReturnNil(t *testing.T) {
	srv, res := newBandResource(t, "secret", false)
	srv.EmptyBodies(true)

	created, err := res.Create(t.Context(), band{Name: "Fito", Active: true})
	require.NoError(t, err)
	assert.Nil(t, created)

	updated, err := res.Update(t.Context(), "1", band{Name: "Soda Stereo", Active: true})
	require.NoError(t, err)
	assert.Nil(t, updated)

	require.NoError(t, res.Deactivate(t.Context(), "1"))
}

func TestResourceDeactivateIsSoft(t *testing.T) {
	srv, res := newBandResource(t, "secret", false)

	require.NoError(t, res.Deactivate(t.Context(), "1"))

	items, err := res.List(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].Active)
	assert.True(t, items[1].Active)

	reqs := srv.Requests()
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, "/band/1", reqs[0].Path)
	assert.Equal(t, "Bearer secret", reqs[0].Authorization)
}

func TestResourceServerMessageSurfaces(t *testing.T) {
	srv, res := newBandResource(t, "secret", false)
	srv.Fail(http.MethodPut, "/band/1", http.StatusBadRequest, "Nombre inválido")

	_, err := res.Update(t.Context(), "1", band{Name: "x"})
	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "Nombre inválido", reqErr.Error())

	srv.Fail(http.MethodGet, "/band", http.StatusServiceUnavailable, "")
	_, err = res.List(t.Context())
	require.Error(t, err)
	assert.Equal(t, "api /band returned status 503", err.Error())

	srv.ClearFailures()
	_, err = res.List(t.Context())
	assert.NoError(t, err)
}

func TestResourceGetMissing(t *testing.T) {
	_, res := newBandResource(t, "secret", false)

	_, err := res.Get(t.Context(), "404")
	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, reqErr.Status)

	_, err = res.Get(t.Context(), " ")
	assert.Error(t, err)
}

func TestResourceEmptyCollection(t *testing.T) {
	srv := apitest.New(t, "secret")
	srv.Collection("/band", true)
	c, err := NewClient(srv.URL())
	require.NoError(t, err)

	items, err := NewResource(c, Endpoint[band]{Path: "/band"}).List(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestClientLoginAndRegister(t *testing.T) {
	srv := apitest.New(t, "secret")
	srv.AddAccount("ana@example.com", "abc123", map[string]any{"name": "Ana", "lastname": "Paz"})
	c, err := NewClient(srv.URL())
	require.NoError(t, err)

	resp, err := c.Login(t.Context(), LoginRequest{Email: "ana@example.com", Password: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "secret", resp.BearerToken())
	require.NotNil(t, resp.User)
	assert.Equal(t, "Ana Paz", resp.User.DisplayName())

	_, err = c.Login(t.Context(), LoginRequest{Email: "ana@example.com", Password: "nope"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Credenciales inválidas", err.Error())

	reg, err := c.Register(t.Context(), RegisterRequest{Name: "Luis", Lastname: "Alberto", Email: "luis@example.com", Password: "abc123"})
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Equal(t, "luis@example.com", reg.User.Email)

	_, err = c.Register(t.Context(), RegisterRequest{Email: "luis@example.com", Password: "abc123"})
	reqErr, ok := AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, reqErr.Status)
}
