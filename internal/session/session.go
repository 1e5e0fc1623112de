// Package session owns the bearer token and the signed-in user.
//
// The token is persisted under the authToken key of a small TOML file so the
// CLI and the TUI share one login. A Session is safe for concurrent use: the
// watcher goroutine validates it while the UI reads the token.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/five82/discografia/internal/api"
)

// TokenKey is the storage key the bearer token lives under.
const TokenKey = "authToken"

var (
	// ErrNoSession is returned when an operation needs a token and there is none.
	ErrNoSession = errors.New("no session")
	// ErrExpired is returned when the stored token is past its exp claim.
	ErrExpired = errors.New("session expired")
)

// Authenticator exchanges credentials for tokens.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error)
}

// Status is a point-in-time view of the session.
type Status struct {
	Authenticated bool
	User          api.User
	ExpiresAt     time.Time
}

// Session is the explicit session context handed to whoever needs it.
type Session struct {
	mu    sync.RWMutex
	store *Store
	auth  Authenticator
	token string
	user  api.User
	exp   time.Time
	now   func() time.Time
	log   *logrus.Entry
}

// Option customizes a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Open loads the persisted session from store, if any.
func Open(store *Store, opts ...Option) (*Session, error) {
	s := &Session{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		s.log = logrus.NewEntry(l)
	}
	if store == nil {
		return s, nil
	}
	rec, err := store.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	s.adopt(rec.AuthToken, rec.User.apiUser())
	return s, nil
}

// Bind sets the authenticator used by Login and Register. The API client
// needs the session as its token source, so binding happens after both exist.
func (s *Session) Bind(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user.
func (s *Session) User() api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Validate reports whether a usable token is present. A JWT past its exp
// claim clears the session.
func (s *Session) Validate() bool {
	return s.Check() == nil
}

// Check is Validate with the reason.
func (s *Session) Check() error {
	s.mu.RLock()
	token, exp := s.token, s.exp
	s.mu.RUnlock()
	if token == "" {
		return ErrNoSession
	}
	if !exp.IsZero() && !s.now().Before(exp) {
		s.log.WithField("expired_at", exp).Info("session expired")
		if err := s.clear(); err != nil {
			s.log.WithError(err).Warn("clear expired session")
		}
		return ErrExpired
	}
	return nil
}

// Status validates and returns a snapshot.
func (s *Session) Status() Status {
	ok := s.Validate()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Authenticated: ok, User: s.user, ExpiresAt: s.exp}
}

// Login validates the credentials locally, then exchanges them for a token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	auth, err := s.authenticator()
	if err != nil {
		return err
	}
	resp, err := auth.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return err
	}
	return s.establish(resp, strings.TrimSpace(email))
}

// Register validates the input locally and creates the account. When the
// backend answers with a token the user is signed in and true is returned;
// otherwise Login must follow.
func (s *Session) Register(ctx context.Context, in RegisterInput) (bool, error) {
	if err := ValidateRegister(in); err != nil {
		return false, err
	}
	auth, err := s.authenticator()
	if err != nil {
		return false, err
	}
	resp, err := auth.Register(ctx, api.RegisterRequest{
		Name:     strings.TrimSpace(in.Name),
		Lastname: strings.TrimSpace(in.Lastname),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	})
	if err != nil {
		return false, err
	}
	if resp.BearerToken() == "" {
		return false, nil
	}
	return true, s.establish(resp, strings.TrimSpace(in.Email))
}

// Logout forgets the token and removes it from storage.
func (s *Session) Logout() error {
	return s.clear()
}

func (s *Session) authenticator() (Authenticator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return nil, errors.New("session has no authenticator")
	}
	return s.auth, nil
}

func (s *Session) establish(resp api.AuthResponse, email string) error {
	token := resp.BearerToken()
	if token == "" {
		return errors.New("login response carried no token")
	}
	user := api.User{Email: email}
	if resp.User != nil {
		user = *resp.User
		if user.Email == "" {
			user.Email = email
		}
	}
	s.adopt(token, user)
	s.log.WithField("user", user.Email).Info("session established")
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(record{AuthToken: token, User: fromAPIUser(user)}); err != nil {
		return errors.Wrap(err, "save session")
	}
	return nil
}

func (s *Session) adopt(token string, user api.User) {
	token = strings.TrimSpace(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.exp = tokenExpiry(token)
}

func (s *Session) clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = api.User{}
	s.exp = time.Time{}
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

// tokenExpiry returns the exp claim of a JWT, or zero for opaque tokens. The
// signature cannot be checked client-side; the backend still does that.
func tokenExpiry(token string) time.Time {
	if strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
