package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/discografia/internal/api"
)

// Snapshot represents the latest session state available to the UI.
type Snapshot struct {
	Authenticated       bool
	User                api.User
	ExpiresAt           time.Time
	LastChecked         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed checks
	Checks              int // Number of checks published so far
}

// SignedOut reports whether a check has run and found no usable session.
func (s Snapshot) SignedOut() bool {
	return s.Checks > 0 && !s.Authenticated
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a session check. When err is non-nil the session is
// reported as gone and the error is kept for display; the last known user is
// retained so the UI can say whose session ended.
func (s *Store) Update(authenticated bool, user api.User, expiresAt time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Checks++
	s.snapshot.LastChecked = time.Now()
	if err != nil {
		s.snapshot.Authenticated = false
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Authenticated = authenticated
	s.snapshot.User = user
	s.snapshot.ExpiresAt = expiresAt
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
