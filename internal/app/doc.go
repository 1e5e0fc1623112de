// Package app wires configuration, logging, the session, the REST client and
// the UI together. It is the composition root of discografia.
//
// # Startup
//
//	┌──────────────┐
//	│   Open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml + DISCOGRAFIA_* env
//	       ├─────> prefs.Load()         theme, start view
//	       ├─────> newLogger()          JSON lines to log_file
//	       ├─────> session.Open()       restore the stored token
//	       ├─────> api.NewClient()      bearer token from the session
//	       └─────> catalog.NewServices()
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> StartPoller()        session watcher
//	       └─────> ui.Run()             TUI (blocks)
//
// # Session Watcher
//
// The watcher checks the session every session_check_seconds (default 60)
// and publishes the outcome to state.Store. The UI reads the store on its own
// tick and returns to the login screen once the session is gone. A missing
// token is reported without an error; an expired one carries the error so the
// UI can say why the user was signed out.
//
// Fatal errors (returned from Open or Run):
//   - unreadable or invalid config file, invalid log level
//   - log file or session store that cannot be created
//   - malformed api_url
package app
