package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/discografia/internal/api"
)

func TestStore_UpdateAndSnapshot(t *testing.T) {
	var s Store

	if s.Snapshot().SignedOut() {
		t.Fatal("SignedOut() = true before any check")
	}

	exp := time.Now().Add(time.Hour)
	before := time.Now()
	s.Update(true, api.User{Email: "ana@example.com"}, exp, nil)

	snap := s.Snapshot()
	if !snap.Authenticated || snap.User.Email != "ana@example.com" {
		t.Fatalf("snapshot = %#v, want authenticated ana", snap)
	}
	if !snap.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", snap.ExpiresAt, exp)
	}
	if snap.LastChecked.Before(before) {
		t.Fatalf("LastChecked = %v, want >= %v", snap.LastChecked, before)
	}
	if snap.SignedOut() || snap.Checks != 1 {
		t.Fatalf("snapshot = %#v, want one check signed in", snap)
	}
}

func TestStore_UpdateErrorSignsOutButKeepsUser(t *testing.T) {
	var s Store

	s.Update(true, api.User{Email: "ana@example.com"}, time.Time{}, nil)
	origErr := errors.New("session expired")
	s.Update(true, api.User{}, time.Time{}, origErr)

	snap := s.Snapshot()
	if snap.Authenticated || !snap.SignedOut() {
		t.Fatalf("snapshot = %#v, want signed out", snap)
	}
	if snap.User.Email != "ana@example.com" {
		t.Fatalf("User = %#v, want previous user kept", snap.User)
	}
	if snap.LastError == nil || snap.LastError.Error() != "session expired" {
		t.Fatalf("LastError = %v, want session expired", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	for i := 1; i <= 3; i++ {
		s.Update(false, api.User{}, time.Time{}, errors.New("fail"))
		if got := s.Snapshot().ConsecutiveFailures; got != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", got, i)
		}
	}

	s.Update(true, api.User{}, time.Time{}, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("snapshot = %#v, want failures reset", snap)
	}
	if snap.Checks != 4 {
		t.Fatalf("Checks = %d, want 4", snap.Checks)
	}
}
