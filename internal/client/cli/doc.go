// Package cli provides the interactive notekeeper command-line client.
//
// It wires configuration, the API client and the vault services into a REPL.
// Note bodies and stored passwords are encrypted locally with a key derived
// from the master password; the server only sees ciphertext.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
