package crud

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Phase is the list controller's load state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseLoading {
		return "loading"
	}
	return "ready"
}

// Options wires a List to its collaborators.
type Options[T Record, A any] struct {
	Service Service[T]
	// Aux is fetched best-effort after the primary collection.
	Aux Lister[A]
	// AuxName names the auxiliary collection in logs.
	AuxName string
	// AuxRef extracts the foreign key an auxiliary record holds into the
	// primary collection. When set, Counts reports dependents per primary id.
	AuxRef  func(A) string
	Session SessionValidator
	Logger  *logrus.Entry
}

// LoadResult carries one fetch of both collections. Seq is the load it
// answers, as returned by LoadSeq when the fetch started; zero is applied
// unconditionally.
type LoadResult[T Record, A any] struct {
	Seq    uint64
	Items  []T
	Aux    []A
	Err    error
	AuxErr error
}

// Deactivation is a confirmed gate, ready to be sent.
type Deactivation[T Record] struct {
	Target T
	Hard   bool
	Seq    uint64
}

// DeactivateResult is the outcome of a deactivate call followed by a reload.
type DeactivateResult[T Record, A any] struct {
	Target T
	Hard   bool
	Err    error
	Load   LoadResult[T, A]
}

type pendingNotice struct {
	highlight string
	notice    string
}

// List owns the authoritative in-memory copy of a collection and the
// transient state around it. All methods except Fetch, Submit and Deactivate
// must run on the owning event loop; those three only read immutable fields.
type List[T Record, A any] struct {
	desc    Descriptor[T]
	svc     Service[T]
	aux     Lister[A]
	auxName string
	auxRef  func(A) string
	session SessionValidator
	log     *logrus.Entry

	phase     Phase
	loaded    bool
	items     []T
	auxItems  []A
	counts    map[string]int
	errMsg    string
	notice    string
	highlight string
	form      *Form[T]
	gate      *Gate[T]
	pending   *pendingNotice
	timers    Timers
	closed    bool
	seq       uint64

	formEffects Effects
}

// NewList builds a controller in the Loading phase.
func NewList[T Record, A any](desc Descriptor[T], opts Options[T, A]) *List[T, A] {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = logrus.NewEntry(l)
	}
	auxName := opts.AuxName
	if auxName == "" {
		auxName = "auxiliary"
	}
	return &List[T, A]{
		desc:    desc,
		svc:     opts.Service,
		aux:     opts.Aux,
		auxName: auxName,
		auxRef:  opts.AuxRef,
		session: opts.Session,
		log:     logger.WithField("resource", desc.Resource),
		phase:   PhaseLoading,
		counts:  map[string]int{},
	}
}

// BeginLoad enters the Loading phase. It returns false when no fetch should
// run: the controller is closed, or the resource needs a session and there
// is none.
func (l *List[T, A]) BeginLoad() bool {
	if l.closed {
		return false
	}
	if l.desc.RequireSessionToLoad && l.session != nil && !l.session.Validate() {
		l.phase = PhaseReady
		return false
	}
	l.seq++
	l.phase = PhaseLoading
	l.errMsg = ""
	return true
}

// LoadSeq identifies the most recent load. Results of earlier loads are
// dropped by ApplyLoad.
func (l *List[T, A]) LoadSeq() uint64 {
	return l.seq
}

// Fetch loads the primary collection, then the auxiliary one best-effort.
func (l *List[T, A]) Fetch(ctx context.Context) LoadResult[T, A] {
	var res LoadResult[T, A]
	items, err := l.svc.List(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Items = items
	if l.aux != nil {
		auxItems, auxErr := l.aux.List(ctx)
		if auxErr != nil {
			res.AuxErr = &AuxiliaryLoadError{Resource: l.auxName, Err: auxErr}
		} else {
			res.Aux = auxItems
		}
	}
	return res
}

// ApplyLoad moves to Ready. A failed primary fetch keeps the stale data on
// screen under an error banner. Pending notices from a form success are
// shown once the reload lands.
func (l *List[T, A]) ApplyLoad(res LoadResult[T, A]) Effects {
	if l.closed {
		return Effects{}
	}
	if res.Seq != 0 && res.Seq < l.seq {
		l.log.WithField("seq", res.Seq).Debug("stale load dropped")
		return Effects{}
	}
	l.phase = PhaseReady
	if res.Err != nil {
		l.errMsg = messageFor(res.Err, l.desc.Messages.LoadFailed)
		l.log.WithError(res.Err).Error("load failed")
	} else {
		l.items = append([]T(nil), res.Items...)
		l.loaded = true
		if res.AuxErr != nil {
			l.log.WithError(res.AuxErr).Warn("auxiliary load failed")
			l.auxItems = nil
		} else {
			l.auxItems = append([]A(nil), res.Aux...)
		}
		l.recount()
	}
	return l.flushPending()
}

func (l *List[T, A]) recount() {
	if l.auxRef == nil || len(l.items) == 0 || len(l.auxItems) == 0 {
		l.counts = map[string]int{}
		return
	}
	l.counts = CountBy(l.auxItems, l.auxRef)
}

func (l *List[T, A]) flushPending() Effects {
	if l.pending == nil {
		return Effects{}
	}
	p := l.pending
	l.pending = nil
	var eff Effects
	if p.highlight != "" {
		l.highlight = p.highlight
		eff.Expiries = append(eff.Expiries, l.timers.Schedule(SlotHighlight, HighlightDuration))
	}
	if p.notice != "" {
		eff = eff.merge(l.showNotice(p.notice))
	}
	return eff
}

func (l *List[T, A]) showNotice(msg string) Effects {
	l.notice = msg
	return Effects{Expiries: []Expiry{l.timers.Schedule(SlotNotice, NoticeDuration)}}
}

// RequestCreate opens the form over a blank draft.
func (l *List[T, A]) RequestCreate() *Form[T] {
	if l.closed {
		return nil
	}
	l.form = NewForm(l.desc, nil, l.formSucceeded)
	return l.form
}

// RequestEdit opens the form over a copy of record.
func (l *List[T, A]) RequestEdit(record T) *Form[T] {
	if l.closed {
		return nil
	}
	l.form = NewForm(l.desc, &record, l.formSucceeded)
	return l.form
}

// CancelForm closes the form without saving.
func (l *List[T, A]) CancelForm() {
	l.form = nil
}

// SubmitForm starts submitting the open form.
func (l *List[T, A]) SubmitForm() (Submission[T], error) {
	if l.form == nil {
		return Submission[T]{}, ErrNothingOpen
	}
	return l.form.BeginSubmit(l.session)
}

// Submit sends a submission through the service.
func (l *List[T, A]) Submit(ctx context.Context, sub Submission[T]) SubmitResult[T] {
	return Submit(ctx, l.svc, sub)
}

// ApplySubmit finishes the open form's submission.
func (l *List[T, A]) ApplySubmit(res SubmitResult[T]) Effects {
	if l.closed || l.form == nil {
		return Effects{}
	}
	if res.Err != nil {
		l.log.WithError(res.Err).Error("save failed")
	}
	l.formEffects = Effects{}
	l.form.Finish(res)
	eff := l.formEffects
	l.formEffects = Effects{}
	return eff
}

func (l *List[T, A]) formSucceeded(saved T, isEdit bool) {
	l.formEffects = l.OnFormSuccess(saved, isEdit)
}

// OnFormSuccess closes the form and reloads the whole collection. Once the
// reload lands, saved is highlighted and a create- or edit-worded notice is
// shown.
func (l *List[T, A]) OnFormSuccess(saved T, isEdit bool) Effects {
	msg := l.desc.Messages.Created
	if isEdit {
		msg = l.desc.Messages.Updated
	}
	l.pending = &pendingNotice{highlight: saved.RecordID(), notice: msg}
	l.form = nil
	l.errMsg = ""
	l.log.WithFields(logrus.Fields{"id": saved.RecordID(), "edit": isEdit}).Info("record saved")
	if !l.BeginLoad() {
		return l.flushPending()
	}
	return Effects{Reload: true}
}

// RequestDeactivate opens the confirmation gate for an active record.
func (l *List[T, A]) RequestDeactivate(record T) (*Gate[T], error) {
	if l.closed || !record.IsActive() {
		return nil, nil
	}
	if l.session != nil && !l.session.Validate() {
		return nil, ErrSessionInvalid
	}
	l.gate = NewGate(record, l.Dependents(record.RecordID()), l.desc.Confirm)
	return l.gate, nil
}

// CancelDeactivate closes the gate with no state change.
func (l *List[T, A]) CancelDeactivate() {
	l.gate = nil
}

// ConfirmDeactivate closes the gate and returns the action to send.
func (l *List[T, A]) ConfirmDeactivate() (Deactivation[T], error) {
	g := l.gate
	l.gate = nil
	if g == nil {
		return Deactivation[T]{}, ErrNothingOpen
	}
	if l.session != nil && !l.session.Validate() {
		return Deactivation[T]{}, ErrSessionInvalid
	}
	l.errMsg = ""
	l.seq++
	return Deactivation[T]{Target: g.Target(), Hard: g.Prompt().Hard, Seq: l.seq}, nil
}

// Deactivate sends the deactivate call and, when it succeeds, reloads.
func (l *List[T, A]) Deactivate(ctx context.Context, d Deactivation[T]) DeactivateResult[T, A] {
	res := DeactivateResult[T, A]{Target: d.Target, Hard: d.Hard}
	if err := l.svc.Deactivate(ctx, d.Target.RecordID()); err != nil {
		res.Err = err
		res.Load.Seq = d.Seq
		return res
	}
	res.Load = l.Fetch(ctx)
	res.Load.Seq = d.Seq
	return res
}

// ApplyDeactivate reconciles with the reload and shows the success notice, or
// surfaces the failure over the current data.
func (l *List[T, A]) ApplyDeactivate(res DeactivateResult[T, A]) Effects {
	if l.closed {
		return Effects{}
	}
	if res.Err != nil {
		fallback := l.desc.Messages.DeactivateFailed
		if res.Hard {
			fallback = l.desc.Messages.DeleteFailed
		}
		l.errMsg = messageFor(res.Err, fallback)
		l.log.WithError(res.Err).WithField("id", res.Target.RecordID()).Error("deactivate failed")
		// A load that was in flight when the gate closed is now stale.
		if res.Load.Seq == l.seq {
			l.phase = PhaseReady
		}
		return Effects{}
	}
	l.log.WithField("id", res.Target.RecordID()).Info("record deactivated")
	eff := l.ApplyLoad(res.Load)
	msg := l.desc.Messages.Deactivated
	if res.Hard {
		msg = l.desc.Messages.Deleted
	}
	return eff.merge(l.showNotice(msg))
}

// Expire clears the slot of a fired expiry unless it was superseded.
func (l *List[T, A]) Expire(e Expiry) bool {
	if l.closed || !l.timers.Fire(e) {
		return false
	}
	switch e.Slot {
	case SlotHighlight:
		l.highlight = ""
	case SlotNotice:
		l.notice = ""
	}
	return true
}

// DismissError hides the error banner.
func (l *List[T, A]) DismissError() {
	l.errMsg = ""
}

// Close tears the controller down. Pending expiries are cancelled and later
// results are ignored.
func (l *List[T, A]) Close() {
	l.timers.CancelAll()
	l.closed = true
	l.form = nil
	l.gate = nil
	l.pending = nil
	l.highlight = ""
	l.notice = ""
}

// Phase returns the load phase.
func (l *List[T, A]) Phase() Phase { return l.phase }

// Loaded reports whether at least one primary load succeeded.
func (l *List[T, A]) Loaded() bool { return l.loaded }

// Items returns a copy of the collection.
func (l *List[T, A]) Items() []T { return append([]T(nil), l.items...) }

// Aux returns a copy of the auxiliary collection.
func (l *List[T, A]) Aux() []A { return append([]A(nil), l.auxItems...) }

// AuxIndex indexes the auxiliary collection by key. Later entries win.
func (l *List[T, A]) AuxIndex(key func(A) string) map[string]A {
	return IndexBy(l.auxItems, key)
}

// Counts returns a copy of the dependents map.
func (l *List[T, A]) Counts() map[string]int {
	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// Dependents returns the number of auxiliary records referencing id.
func (l *List[T, A]) Dependents(id string) int { return l.counts[id] }

// Error returns the visible error banner.
func (l *List[T, A]) Error() string { return l.errMsg }

// Notice returns the visible success banner.
func (l *List[T, A]) Notice() string { return l.notice }

// Highlighted reports whether id is marked as recently updated.
func (l *List[T, A]) Highlighted(id string) bool { return id != "" && l.highlight == id }

// Form returns the open form, or nil.
func (l *List[T, A]) Form() *Form[T] { return l.form }

// Gate returns the open confirmation gate, or nil.
func (l *List[T, A]) Gate() *Gate[T] { return l.gate }

// Closed reports whether Close was called.
func (l *List[T, A]) Closed() bool { return l.closed }
