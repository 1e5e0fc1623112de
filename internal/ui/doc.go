// Package ui provides the terminal interface for discografia.
//
// The interface is a Bubble Tea program with two screens. Without a session
// it shows the login and register forms. With one it mounts three views:
//
//   - Artistas: artist table with type names resolved from the loaded types
//   - Tipos: artist type table with the number of artists per type
//   - Registro: tail of the application log with search
//
// Each record view wraps a crud.List. Network calls run inside tea.Cmds and
// their results come back as messages tagged with the list that started them,
// so a view torn down by a logout ignores late replies. Transient highlights
// and notices become tea.Tick commands that hand the expiry back to the list.
//
// The session watcher publishes into state.Store; the model polls the store
// on a tick and returns to the login screen once the session is gone.
//
// # Key Bindings
//
//   - 1/2/3 or Tab: switch views
//   - n: new record, enter/e: edit, d: delete or deactivate
//   - r: reload, x: hide the error banner
//   - /: search the log, n/N: next/previous match
//   - T: cycle theme, L: sign out, ?: help, q: quit
package ui
