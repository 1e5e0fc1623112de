package crud

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

type item struct {
	ID     string
	Name   string
	Active bool
}

func (i item) RecordID() string { return i.ID }
func (i item) IsActive() bool   { return i.Active }

type child struct {
	Parent string
}

type fakeService struct {
	mu sync.Mutex

	items   []item
	nextID  int
	nilBody bool

	listErr       error
	createErr     error
	updateErr     error
	deactivateErr error

	creates     int
	updates     int
	deactivated []string
}

func (f *fakeService) List(context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]item(nil), f.items...), nil
}

func (f *fakeService) Create(_ context.Context, draft item) (*item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	draft.ID = "srv-" + strconv.Itoa(f.nextID)
	f.items = append(f.items, draft)
	if f.nilBody {
		return nil, nil
	}
	return &draft, nil
}

func (f *fakeService) Update(_ context.Context, id string, draft item) (*item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			draft.ID = id
			f.items[i] = draft
		}
	}
	if f.nilBody {
		return nil, nil
	}
	return &draft, nil
}

func (f *fakeService) Deactivate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deactivateErr != nil {
		return f.deactivateErr
	}
	f.deactivated = append(f.deactivated, id)
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Active = false
		}
	}
	return nil
}

type fakeLister struct {
	items []child
	err   error
}

func (f *fakeLister) List(context.Context) ([]child, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]child(nil), f.items...), nil
}

type fakeSession struct {
	valid bool
}

func (s *fakeSession) Validate() bool { return s.valid }

var errNameRequired = &ValidationError{Field: "Name", Message: "name required"}

func testDescriptor() Descriptor[item] {
	return Descriptor[item]{
		Resource: "item",
		Blank:    func() item { return item{Active: true} },
		Draft: func(i item) item {
			i.Name = strings.TrimSpace(i.Name)
			return i
		},
		Validate: func(i item) *ValidationError {
			if strings.TrimSpace(i.Name) == "" {
				return errNameRequired
			}
			return nil
		},
		WithID: func(i item, id string) item {
			i.ID = id
			return i
		},
		Confirm: func(i item, dependents int) Prompt {
			if dependents > 0 {
				return Prompt{Title: "Deactivate " + i.Name, ConfirmLabel: "Deactivate"}
			}
			return Prompt{Title: "Delete " + i.Name, ConfirmLabel: "Delete", Hard: true}
		},
		Messages: Messages{
			Created:          "created",
			Updated:          "updated",
			Deleted:          "deleted",
			Deactivated:      "deactivated",
			LoadFailed:       "load failed",
			SaveFailed:       "save failed",
			DeleteFailed:     "delete failed",
			DeactivateFailed: "deactivate failed",
		},
	}
}

type fixture struct {
	svc     *fakeService
	aux     *fakeLister
	session *fakeSession
	list    *List[item, child]
}

func newFixture(desc Descriptor[item]) *fixture {
	f := &fixture{
		svc: &fakeService{items: []item{
			{ID: "a", Name: "Rock", Active: true},
			{ID: "b", Name: "Jazz", Active: true},
		}},
		aux: &fakeLister{items: []child{
			{Parent: "a"}, {Parent: "a"}, {Parent: ""}, {Parent: "zz"},
		}},
		session: &fakeSession{valid: true},
	}
	f.list = NewList(desc, Options[item, child]{
		Service: f.svc,
		Aux:     f.aux,
		AuxName: "children",
		AuxRef:  func(c child) string { return c.Parent },
		Session: f.session,
	})
	return f
}

func (f *fixture) load() Effects {
	if !f.list.BeginLoad() {
		return Effects{}
	}
	return f.list.ApplyLoad(f.list.Fetch(context.Background()))
}

func (f *fixture) submit() (SubmitResult[item], Effects, error) {
	sub, err := f.list.SubmitForm()
	if err != nil {
		return SubmitResult[item]{}, Effects{}, err
	}
	res := f.list.Submit(context.Background(), sub)
	return res, f.list.ApplySubmit(res), nil
}

func (f *fixture) deactivate(target item) (Effects, error) {
	if _, err := f.list.RequestDeactivate(target); err != nil {
		return Effects{}, err
	}
	d, err := f.list.ConfirmDeactivate()
	if err != nil {
		return Effects{}, err
	}
	return f.list.ApplyDeactivate(f.list.Deactivate(context.Background(), d)), nil
}

func expiryFor(eff Effects, slot Slot) (Expiry, bool) {
	for _, e := range eff.Expiries {
		if e.Slot == slot {
			return e, true
		}
	}
	return Expiry{}, false
}

var errBoom = errors.New("boom")
