// Package config loads discografia's configuration.
//
// # Resolution Order
//
//  1. Environment overrides (DISCOGRAFIA_API_URL, DISCOGRAFIA_SESSION_PATH,
//     DISCOGRAFIA_LOG_FILE, DISCOGRAFIA_LOG_LEVEL)
//  2. The TOML file, ~/.config/discografia/config.toml unless a path is given
//  3. Built-in defaults
//
// A missing file is not an error. Blank values fall through to the next
// source. Paths starting with ~ are expanded against the home directory.
//
// # Example
//
//	api_url = "https://api.example.com"
//	session_path = "~/.config/discografia/session.toml"
//	log_file = "~/.local/state/discografia/discografia.log"
//	log_level = "debug"
//	session_check_seconds = 60
//
// # Defaults
//
//   - API URL: http://127.0.0.1:3000
//   - Session file: ~/.config/discografia/session.toml
//   - Log file: ~/.local/state/discografia/discografia.log
//   - Log level: info
//   - Session check: every 60 seconds
package config
