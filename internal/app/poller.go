package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/discografia/internal/api"
	"github.com/five82/discografia/internal/session"
	"github.com/five82/discografia/internal/state"
)

const defaultCheckInterval = 60 * time.Second

// SessionSource is what the watcher needs from the session.
type SessionSource interface {
	Check() error
	Status() session.Status
}

// StartPoller launches a background goroutine that validates the session at a
// fixed cadence and publishes the result to the store. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, sess SessionSource, interval time.Duration, logger *logrus.Entry) {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(store, sess, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func refresh(store *state.Store, sess SessionSource, logger *logrus.Entry) {
	err := sess.Check()
	switch {
	case err == nil:
		st := sess.Status()
		store.Update(st.Authenticated, st.User, st.ExpiresAt, nil)
	case errors.Is(err, session.ErrNoSession):
		store.Update(false, api.User{}, time.Time{}, nil)
	default:
		store.Update(false, api.User{}, time.Time{}, err)
		if logger != nil {
			logger.WithError(err).Warn("session check failed")
		}
	}
}
