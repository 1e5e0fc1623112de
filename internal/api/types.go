package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ID is a backend identifier. Backends answer with numbers or strings; both
// are kept as text.
type ID string

// UnmarshalJSON accepts JSON strings, numbers and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// User is the account attached to a session.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
}

// DisplayName joins name and lastname, falling back to the email.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.Name + " " + u.Lastname)
	if full != "" {
		return full
	}
	return u.Email
}

// LoginRequest mirrors POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest mirrors POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the auth endpoints.
type AuthResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// BearerToken returns whichever token field the backend filled.
func (r AuthResponse) BearerToken() string {
	if t := strings.TrimSpace(r.Token); t != "" {
		return t
	}
	return strings.TrimSpace(r.AccessToken)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if _, err := c.Do(ctx, http.MethodPost, "/auth/login", false, req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Register creates an account. Some backends log the user in directly and
// return a token; others return only the user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if _, err := c.Do(ctx, http.MethodPost, "/auth/register", false, req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}
