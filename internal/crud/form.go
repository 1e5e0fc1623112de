package crud

import (
	"context"

	"github.com/google/uuid"
)

// FormAction is what a key press asks the form to do.
type FormAction int

const (
	FormNone FormAction = iota
	FormSubmit
	FormCancel
)

// Form owns the draft of a single record while it is being created or edited.
type Form[T Record] struct {
	desc       Descriptor[T]
	original   *T
	draft      T
	err        string
	submitting bool
	onSuccess  func(saved T, isEdit bool)
}

// NewForm opens a form over a copy of existing, or over the blank draft when
// existing is nil. Edits stay local to the draft until submit.
func NewForm[T Record](desc Descriptor[T], existing *T, onSuccess func(saved T, isEdit bool)) *Form[T] {
	f := &Form[T]{desc: desc, onSuccess: onSuccess}
	if existing != nil {
		orig := *existing
		f.original = &orig
		f.draft = orig
		if desc.Draft != nil {
			f.draft = desc.Draft(orig)
		}
	} else if desc.Blank != nil {
		f.draft = desc.Blank()
	}
	return f
}

// IsEdit reports whether the form edits an existing record.
func (f *Form[T]) IsEdit() bool {
	return f.original != nil
}

// Original returns the record being edited, if any.
func (f *Form[T]) Original() (T, bool) {
	if f.original == nil {
		var zero T
		return zero, false
	}
	return *f.original, true
}

// Draft returns a copy of the current draft.
func (f *Form[T]) Draft() T {
	return f.draft
}

// Set applies an edit to the draft. Any visible error is cleared.
func (f *Form[T]) Set(edit func(*T)) {
	if edit == nil {
		return
	}
	edit(&f.draft)
	f.err = ""
}

// Error returns the single visible error, or "".
func (f *Form[T]) Error() string {
	return f.err
}

// Submitting reports whether a submission is in flight.
func (f *Form[T]) Submitting() bool {
	return f.submitting
}

// Validate returns the first failing field, or nil.
func (f *Form[T]) Validate() error {
	if f.desc.Validate == nil {
		return nil
	}
	if verr := f.desc.Validate(f.draft); verr != nil {
		return verr
	}
	return nil
}

// Submission is a validated draft ready to be sent.
type Submission[T Record] struct {
	Draft  T
	ID     string
	IsEdit bool

	withID func(T, string) T
}

// SubmitResult is the outcome of a submission.
type SubmitResult[T Record] struct {
	Saved       T
	IsEdit      bool
	Synthesized bool
	Err         error
}

// BeginSubmit guards against re-entrancy, checks the session and validates.
// On success the form is marked in flight until Finish.
func (f *Form[T]) BeginSubmit(session SessionValidator) (Submission[T], error) {
	if f.submitting {
		return Submission[T]{}, ErrSubmitting
	}
	if session != nil && !session.Validate() {
		return Submission[T]{}, ErrSessionInvalid
	}
	if err := f.Validate(); err != nil {
		f.err = err.Error()
		return Submission[T]{}, err
	}
	f.err = ""
	f.submitting = true
	sub := Submission[T]{Draft: f.draft, IsEdit: f.IsEdit(), withID: f.desc.WithID}
	if f.original != nil {
		sub.ID = (*f.original).RecordID()
	}
	return sub, nil
}

// Submit sends sub through svc. It touches no controller state and is safe to
// run off the event loop. A missing response body is replaced by a stand-in:
// the draft itself for updates, the draft with a temporary id for creates.
func Submit[T Record](ctx context.Context, svc Service[T], sub Submission[T]) SubmitResult[T] {
	res := SubmitResult[T]{IsEdit: sub.IsEdit}
	var (
		saved *T
		err   error
	)
	if sub.IsEdit {
		saved, err = svc.Update(ctx, sub.ID, sub.Draft)
	} else {
		saved, err = svc.Create(ctx, sub.Draft)
	}
	if err != nil {
		res.Err = err
		return res
	}
	if saved != nil {
		res.Saved = *saved
		return res
	}
	res.Synthesized = true
	switch {
	case sub.IsEdit && sub.withID != nil:
		res.Saved = sub.withID(sub.Draft, sub.ID)
	case sub.IsEdit:
		res.Saved = sub.Draft
	case sub.withID != nil:
		res.Saved = sub.withID(sub.Draft, uuid.NewString())
	default:
		res.Saved = sub.Draft
	}
	return res
}

// Finish closes the in-flight submission. On success the success callback
// runs exactly once and true is returned; on failure the error becomes
// visible and submission is re-enabled.
func (f *Form[T]) Finish(res SubmitResult[T]) bool {
	if !f.submitting {
		return false
	}
	f.submitting = false
	if res.Err != nil {
		f.err = messageFor(res.Err, f.desc.Messages.SaveFailed)
		return false
	}
	if f.onSuccess != nil {
		f.onSuccess(res.Saved, res.IsEdit)
	}
	return true
}

// Key maps the keyboard contract: enter submits unless already submitting,
// escape cancels.
func (f *Form[T]) Key(key string) FormAction {
	switch key {
	case "enter":
		if f.submitting {
			return FormNone
		}
		return FormSubmit
	case "esc":
		return FormCancel
	}
	return FormNone
}
