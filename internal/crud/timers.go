package crud

import "time"

// Slot identifies a self-clearing piece of transient UI state.
type Slot int

const (
	SlotHighlight Slot = iota
	SlotNotice
	slotCount
)

const (
	// HighlightDuration is how long a saved row stays marked as recently updated.
	HighlightDuration = 2 * time.Second
	// NoticeDuration is how long a success banner stays up.
	NoticeDuration = 3 * time.Second
)

// Expiry is a scheduled clear of one slot. The owner of the event loop turns
// it into a timer and hands it back to Expire when it fires.
type Expiry struct {
	Slot  Slot
	Gen   uint64
	After time.Duration
}

// Timers tracks one generation per slot. Scheduling or cancelling bumps the
// generation, so a superseded expiry fires into nothing.
type Timers struct {
	gens [slotCount]uint64
}

// Schedule supersedes any pending expiry for slot.
func (t *Timers) Schedule(slot Slot, after time.Duration) Expiry {
	t.gens[slot]++
	return Expiry{Slot: slot, Gen: t.gens[slot], After: after}
}

// Fire reports whether e is still current, consuming it when it is.
func (t *Timers) Fire(e Expiry) bool {
	if e.Slot < 0 || e.Slot >= slotCount {
		return false
	}
	if e.Gen != t.gens[e.Slot] {
		return false
	}
	t.gens[e.Slot]++
	return true
}

// Cancel invalidates the pending expiry for slot.
func (t *Timers) Cancel(slot Slot) {
	t.gens[slot]++
}

// CancelAll invalidates every pending expiry.
func (t *Timers) CancelAll() {
	for i := range t.gens {
		t.gens[i]++
	}
}

// Effects is the follow-up work a state transition asks of its caller.
type Effects struct {
	Reload   bool
	Expiries []Expiry
}

func (e Effects) merge(other Effects) Effects {
	return Effects{
		Reload:   e.Reload || other.Reload,
		Expiries: append(append([]Expiry(nil), e.Expiries...), other.Expiries...),
	}
}
