package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Record is a backend-persisted entity with a stable id and a soft-delete flag.
type Record interface {
	RecordID() string
	IsActive() bool
}

// Service issues the CRUD verbs for one resource type. Create and Update may
// return nil when the backend answers without a body.
type Service[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (*T, error)
	Update(ctx context.Context, id string, draft T) (*T, error)
	Deactivate(ctx context.Context, id string) error
}

// Lister fetches an auxiliary collection.
type Lister[A any] interface {
	List(ctx context.Context) ([]A, error)
}

// SessionValidator gates mutating actions on a live session.
type SessionValidator interface {
	Validate() bool
}

// ErrSessionInvalid is returned when an action needs a session and there is none.
var ErrSessionInvalid = errors.New("session expired")

// ErrSubmitting is returned when a form is submitted while a submission is in flight.
var ErrSubmitting = errors.New("submission in progress")

// ErrNothingOpen is returned when there is no open form or gate to act on.
var ErrNothingOpen = errors.New("nothing open")

// ValidationError is a client-side field failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuxiliaryLoadError marks a failed best-effort fetch. It is logged and the
// auxiliary data degrades to empty.
type AuxiliaryLoadError struct {
	Resource string
	Err      error
}

func (e *AuxiliaryLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *AuxiliaryLoadError) Unwrap() error {
	return e.Err
}

// Prompt is the wording the confirmation gate shows for a target.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	// Hard selects the "permanent delete" wording. The backend call is the
	// same deactivate either way.
	Hard bool
}

// Messages holds the user-facing wording of one resource type.
type Messages struct {
	Created          string
	Updated          string
	Deleted          string
	Deactivated      string
	LoadFailed       string
	SaveFailed       string
	DeleteFailed     string
	DeactivateFailed string
}

// Descriptor parameterizes the generic controllers for one record shape.
type Descriptor[T Record] struct {
	// Resource names the collection in logs.
	Resource string
	// Blank returns the draft used by create mode.
	Blank func() T
	// Draft normalizes a copy of an existing record before editing. Optional.
	Draft func(T) T
	// Validate checks required fields left to right and reports the first
	// failure only.
	Validate func(T) *ValidationError
	// WithID returns a copy of the record carrying id.
	WithID func(T, string) T
	// Confirm builds the gate wording from the number of dependent records.
	Confirm func(target T, dependents int) Prompt
	// RequireSessionToLoad skips loading entirely without a live session.
	RequireSessionToLoad bool

	Messages Messages
}

func messageFor(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
