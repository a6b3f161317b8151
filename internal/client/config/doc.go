// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c/-config or the CONFIG variable.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the notekeeper API
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s"
//	}
package config
