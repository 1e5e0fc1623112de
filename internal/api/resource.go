package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint describes one REST collection.
type Endpoint[T any] struct {
	// Path is the collection path, e.g. "/artist".
	Path string
	// AuthReads attaches the bearer token to GET requests too. Mutations
	// always carry it.
	AuthReads bool
	// CreateBody and UpdateBody shape the JSON body sent for a draft. When
	// nil the draft itself is encoded.
	CreateBody func(T) any
	UpdateBody func(T) any
}

// Resource exposes the CRUD verbs of one endpoint.
type Resource[T any] struct {
	client *Client
	ep     Endpoint[T]
}

// NewResource binds an endpoint to a client.
func NewResource[T any](client *Client, ep Endpoint[T]) *Resource[T] {
	return &Resource[T]{client: client, ep: ep}
}

// Path returns the collection path.
func (r *Resource[T]) Path() string {
	return r.ep.Path
}

// List fetches the whole collection. An empty body yields an empty slice.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if _, err := r.client.Do(ctx, http.MethodGet, r.ep.Path, r.ep.AuthReads, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	path, err := r.itemPath(id)
	if err != nil {
		return item, err
	}
	present, err := r.client.Do(ctx, http.MethodGet, path, r.ep.AuthReads, nil, &item)
	if err != nil {
		return item, err
	}
	if !present {
		return item, &RequestError{Method: http.MethodGet, Path: path, Status: http.StatusNoContent, Message: fmt.Sprintf("api %s returned no body", path)}
	}
	return item, nil
}

// Create posts a draft. The result is nil when the backend answers without a
// body; callers decide how to stand in for it.
func (r *Resource[T]) Create(ctx context.Context, draft T) (*T, error) {
	body := any(draft)
	if r.ep.CreateBody != nil {
		body = r.ep.CreateBody(draft)
	}
	return r.send(ctx, http.MethodPost, r.ep.Path, body)
}

// Update puts a draft over the record identified by id. As with Create, a
// missing body yields nil.
func (r *Resource[T]) Update(ctx context.Context, id string, draft T) (*T, error) {
	path, err := r.itemPath(id)
	if err != nil {
		return nil, err
	}
	body := any(draft)
	if r.ep.UpdateBody != nil {
		body = r.ep.UpdateBody(draft)
	}
	return r.send(ctx, http.MethodPut, path, body)
}

// Deactivate issues DELETE for id. The backend soft-deletes: the record stays
// fetchable with active=false.
func (r *Resource[T]) Deactivate(ctx context.Context, id string) error {
	path, err := r.itemPath(id)
	if err != nil {
		return err
	}
	_, err = r.client.Do(ctx, http.MethodDelete, path, true, nil, nil)
	return err
}

func (r *Resource[T]) send(ctx context.Context, method, path string, body any) (*T, error) {
	var out T
	present, err := r.client.Do(ctx, method, path, true, body, &out)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return &out, nil
}

func (r *Resource[T]) itemPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: id required", r.ep.Path)
	}
	return strings.TrimRight(r.ep.Path, "/") + "/" + url.PathEscape(id), nil
}
