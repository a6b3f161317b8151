// Package client talks to the notekeeper REST API.
//
// # Overview
//
// Client is the transport contract used by the CLI services; HTTPClient is
// its net/http implementation. HTTPClient keeps the bearer token obtained by
// Login and sends it on every later call.
//
// # Error Handling
//
// Connection failures wrap ErrUnavailable. Error responses become *APIError,
// which also matches ErrUnauthorized (401), ErrNotFound (404) and
// ErrConflict (400) with errors.Is.
package client
