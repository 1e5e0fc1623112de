// Package state shares the session status between the watcher and the UI.
//
// # Overview
//
// The session watcher in package app validates the session on a fixed
// cadence and publishes the result here. The UI reads a snapshot on its own
// tick and returns to the login screen once the snapshot reports the session
// as gone.
//
//	Producer (watcher):            Consumer (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ session.Check()  │          │                  │
//	│       ↓          │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│       ↓          │ (mutex)  │       ↓          │
//	│ repeat...        │          │ login screen?    │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
// A failed check marks the snapshot unauthenticated and records the error,
// but keeps the last known user so the UI can name whose session ended.
// A successful check replaces everything and resets ConsecutiveFailures.
//
// The Store is safe to use as a zero value.
package state
