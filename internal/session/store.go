package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/discografia/internal/api"
)

type storedUser struct {
	ID       string `toml:"id,omitempty"`
	Name     string `toml:"name,omitempty"`
	Lastname string `toml:"lastname,omitempty"`
	Email    string `toml:"email,omitempty"`
}

func (u storedUser) apiUser() api.User {
	return api.User{ID: api.ID(u.ID), Name: u.Name, Lastname: u.Lastname, Email: u.Email}
}

func fromAPIUser(u api.User) storedUser {
	return storedUser{ID: u.ID.String(), Name: u.Name, Lastname: u.Lastname, Email: u.Email}
}

type record struct {
	AuthToken string     `toml:"authToken"`
	User      storedUser `toml:"user"`
}

// Store persists the session record to a TOML file readable only by the user.
type Store struct {
	path string
}

// NewStore resolves path, expanding a leading ~.
func NewStore(path string) (*Store, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the resolved file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing file is an empty session.
func (s *Store) Load() (record, error) {
	var rec record
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rec, nil
		}
		return rec, errors.Wrap(err, "read session file")
	}
	if err := toml.Unmarshal(data, &rec); err != nil {
		return record{}, errors.Wrap(err, "parse session file")
	}
	return rec, nil
}

// Save writes the record atomically.
func (s *Store) Save(rec record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	data, err := toml.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replace session")
	}
	return nil
}

// Clear removes the file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("session path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
