// Package config holds the client settings shared by htclient and htupload.
//
// # Overview
//
// Both entry points need the same four settings: where the inference service
// lives, how long an upload may take, how long the health probe may take and
// which console theme to use. Everything has a built-in default so the client
// works without any file on disk.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. An explicit TOML file passed with --config (Load)
//  3. Command-line flags, applied by the caller
//
// Load never looks for a file on its own. A blank path returns the defaults
// without touching the file system.
//
// # Default Values
//
//   - Base URL: http://localhost:8000
//   - Upload timeout: 5m (large videos over slow links)
//   - Health timeout: 5s (the probe must never stall the run)
//   - Theme: Nightfox
//
// # TOML Format
//
//	base_url = "http://localhost:8000"
//	upload_timeout = "5m"
//	health_timeout = "5s"
//	theme = "Nightfox"
//
// All fields are optional. Durations use Go duration syntax and must be
// positive. Blank values keep their defaults.
//
// # Error Handling
//
// Load returns errors for:
//   - An explicit path that does not exist
//   - File read errors
//   - TOML parsing errors and invalid durations (prefixed "parse config")
//
// The package never writes configuration.
package config
