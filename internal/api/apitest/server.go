// Package apitest runs an in-memory stand-in for the discografia backend.
//
// Collections are registered by path and hold plain JSON objects. Mutations
// always require the configured bearer token; reads require it unless the
// collection was registered as public. DELETE is a soft delete that flips
// active to false.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]any
}

type failure struct {
	status  int
	message string
}

type collection struct {
	public  bool
	records []map[string]any
}

type account struct {
	password string
	user     map[string]any
}

// Server is a fake backend bound to an httptest.Server.
type Server struct {
	srv   *httptest.Server
	token string

	mu          sync.Mutex
	collections map[string]*collection
	failures    map[string]failure
	requests    []Request
	emptyBodies bool
	nextID      int
	accounts    map[string]account
}

// New starts a server that accepts token as the only valid bearer token. The
// server is closed when the test ends.
func New(t testing.TB, token string) *Server {
	t.Helper()
	s := &Server{
		token:       token,
		collections: make(map[string]*collection),
		failures:    make(map[string]failure),
		accounts:    make(map[string]account),
		nextID:      100,
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the server root.
func (s *Server) URL() string {
	return s.srv.URL
}

// Token returns the accepted bearer token.
func (s *Server) Token() string {
	return s.token
}

// Collection registers path (e.g. "/artist"). Public collections answer GETs
// without a token.
func (s *Server) Collection(path string, public bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.Trim(path, "/")
	if c, ok := s.collections[name]; ok {
		c.public = public
		return
	}
	s.collections[name] = &collection{public: public}
}

// Seed appends records to path, registering it as private when unknown.
func (s *Server) Seed(path string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := strings.Trim(path, "/")
	c, ok := s.collections[name]
	if !ok {
		c = &collection{}
		s.collections[name] = c
	}
	for _, rec := range records {
		cp := clone(rec)
		if _, ok := cp["id"]; !ok {
			cp["id"] = s.allocID()
		}
		c.records = append(c.records, cp)
	}
}

// Records returns a copy of the records stored under path.
func (s *Server) Records(path string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[strings.Trim(path, "/")]
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, clone(rec))
	}
	return out
}

// Fail makes every method request to path answer status. An empty message
// sends no body.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// ClearFailures removes every injected failure.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]failure)
}

// EmptyBodies makes successful mutations answer 204 with no body.
func (s *Server) EmptyBodies(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emptyBodies = on
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// AddAccount registers credentials accepted by /auth/login.
func (s *Server) AddAccount(email, password string, user map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := clone(user)
	u["email"] = email
	if _, ok := u["id"]; !ok {
		u["id"] = s.allocID()
	}
	s.accounts[email] = account{password: password, user: u}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.inject)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
	})
	r.Route("/{collection}", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				req.Body = body
			}
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()
		next.ServeHTTP(w, r.WithContext(withBody(r.Context(), req.Body)))
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.message == "" {
			w.WriteHeader(f.status)
			return
		}
		writeJSON(w, f.status, map[string]any{"message": f.message})
	})
}

func (s *Server) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, needAuth bool) (*collection, bool) {
	name := chi.URLParam(r, "collection")
	s.mu.Lock()
	c, ok := s.collections[name]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Ruta no encontrada"})
		return nil, false
	}
	if (needAuth || !c.public) && !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token inválido"})
		return nil, false
	}
	return c, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	s.mu.Lock()
	out := make([]map[string]any, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, clone(rec))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	s.mu.Lock()
	rec := find(c, chi.URLParam(r, "id"))
	if rec != nil {
		rec = clone(rec)
	}
	s.mu.Unlock()
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Registro no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	body := bodyFrom(r.Context())
	if body == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Cuerpo inválido"})
		return
	}
	s.mu.Lock()
	rec := clone(body)
	rec["id"] = s.allocID()
	c.records = append(c.records, rec)
	out := clone(rec)
	empty := s.emptyBodies
	s.mu.Unlock()
	s.respond(w, http.StatusCreated, out, empty)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	body := bodyFrom(r.Context())
	s.mu.Lock()
	rec := find(c, chi.URLParam(r, "id"))
	if rec == nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Registro no encontrado"})
		return
	}
	for k, v := range body {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	out := clone(rec)
	empty := s.emptyBodies
	s.mu.Unlock()
	s.respond(w, http.StatusOK, out, empty)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	s.mu.Lock()
	rec := find(c, chi.URLParam(r, "id"))
	if rec == nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Registro no encontrado"})
		return
	}
	rec["active"] = false
	empty := s.emptyBodies
	s.mu.Unlock()
	s.respond(w, http.StatusOK, map[string]any{"message": "Registro desactivado"}, empty)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	s.mu.Lock()
	acct, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok || acct.password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciales inválidas"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": s.token, "user": clone(acct.user)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]any{"message": "El correo ya está registrado"})
		return
	}
	user := map[string]any{
		"id":       s.allocID(),
		"name":     body["name"],
		"lastname": body["lastname"],
		"email":    email,
	}
	s.accounts[email] = account{password: password, user: user}
	out := clone(user)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"token": s.token, "user": out})
}

func (s *Server) respond(w http.ResponseWriter, status int, body any, empty bool) {
	if empty {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, body)
}

// allocID must be called with mu held.
func (s *Server) allocID() int {
	s.nextID++
	return s.nextID
}

type bodyKey struct{}

func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyKey{}).(map[string]any)
	return body
}

func find(c *collection, id string) map[string]any {
	for _, rec := range c.records {
		if idString(rec["id"]) == id {
			return rec
		}
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	}
	return ""
}

func clone(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
