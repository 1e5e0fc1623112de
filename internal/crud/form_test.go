package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormCopiesRecord(t *testing.T) {
	orig := item{ID: "a", Name: "  Rock ", Active: true}
	form := NewForm(testDescriptor(), &orig, nil)

	form.Set(func(i *item) { i.Name = "Metal" })
	assert.Equal(t, "  Rock ", orig.Name)
	got, ok := form.Original()
	require.True(t, ok)
	assert.Equal(t, "  Rock ", got.Name)
	assert.Equal(t, "Metal", form.Draft().Name)
}

func TestNewFormNormalizesDraft(t *testing.T) {
	orig := item{ID: "a", Name: "  Rock ", Active: true}
	form := NewForm(testDescriptor(), &orig, nil)
	assert.Equal(t, "Rock", form.Draft().Name)
}

func TestFormSuccessCallbackRunsOnce(t *testing.T) {
	var calls []item
	form := NewForm(testDescriptor(), nil, func(saved item, isEdit bool) {
		assert.False(t, isEdit)
		calls = append(calls, saved)
	})
	form.Set(func(i *item) { i.Name = "Funk" })

	sub, err := form.BeginSubmit(nil)
	require.NoError(t, err)
	assert.True(t, form.Submitting())

	_, err = form.BeginSubmit(nil)
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.Equal(t, FormNone, form.Key("enter"))

	res := Submit(t.Context(), &fakeService{}, sub)
	assert.True(t, form.Finish(res))
	assert.False(t, form.Finish(res))
	require.Len(t, calls, 1)
	assert.Equal(t, "Funk", calls[0].Name)
	assert.Equal(t, "srv-1", calls[0].ID)
}

func TestFormKeys(t *testing.T) {
	form := NewForm(testDescriptor(), nil, nil)
	assert.Equal(t, FormSubmit, form.Key("enter"))
	assert.Equal(t, FormCancel, form.Key("esc"))
	assert.Equal(t, FormNone, form.Key("a"))
}

func TestFormFailureUsesFallbackMessage(t *testing.T) {
	form := NewForm(testDescriptor(), nil, nil)
	form.Set(func(i *item) { i.Name = "Funk" })
	_, err := form.BeginSubmit(&fakeSession{valid: true})
	require.NoError(t, err)

	assert.False(t, form.Finish(SubmitResult[item]{Err: &ValidationError{}}))
	assert.Equal(t, "save failed", form.Error())
	assert.False(t, form.Submitting())
}

func TestGateKeys(t *testing.T) {
	g := NewGate(item{ID: "a", Name: "Rock", Active: true}, 0, testDescriptor().Confirm)
	assert.True(t, g.Prompt().Hard)
	assert.Equal(t, "Delete", g.Prompt().ConfirmLabel)

	for _, key := range []string{"y", "Y", "s", "enter"} {
		assert.Equal(t, GateConfirm, g.Key(key), key)
	}
	for _, key := range []string{"n", "esc"} {
		assert.Equal(t, GateCancel, g.Key(key), key)
	}
	assert.Equal(t, GateNone, g.Key("x"))
}

func TestGateDefaultPrompt(t *testing.T) {
	g := NewGate(item{ID: "a"}, 3, nil)
	assert.False(t, g.Prompt().Hard)
	assert.Equal(t, 3, g.Dependents())
	assert.Equal(t, "a", g.Target().ID)
}

func TestTimersSupersede(t *testing.T) {
	var timers Timers
	first := timers.Schedule(SlotNotice, time.Second)
	second := timers.Schedule(SlotNotice, time.Second)

	assert.False(t, timers.Fire(first))
	assert.True(t, timers.Fire(second))
	assert.False(t, timers.Fire(second))

	hl := timers.Schedule(SlotHighlight, time.Second)
	timers.Cancel(SlotHighlight)
	assert.False(t, timers.Fire(hl))

	hl = timers.Schedule(SlotHighlight, time.Second)
	timers.CancelAll()
	assert.False(t, timers.Fire(hl))
	assert.False(t, timers.Fire(Expiry{Slot: Slot(99)}))
}

func TestCountBy(t *testing.T) {
	counts := CountBy([]child{{"a"}, {"b"}, {"a"}, {""}}, func(c child) string { return c.Parent })
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
	assert.Empty(t, CountBy[child](nil, func(c child) string { return c.Parent }))
	assert.Empty(t, CountBy([]child{{"a"}}, nil))
}

func TestIndexBy(t *testing.T) {
	index := IndexBy([]item{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}, {ID: ""}}, item.RecordID)
	assert.Len(t, index, 1)
	assert.Equal(t, "y", index["a"].Name)
}
