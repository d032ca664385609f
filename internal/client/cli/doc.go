// Package cli provides the interactive userauth command-line client.
//
// It wires configuration and the gRPC API client into a small REPL. Typical
// flow: register or log in, browse the user directory, then update or delete
// your own record.
//
// Key features:
//   - Register / Login / Logout
//   - List / Show user records
//   - Update / Delete a record (requires login)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
