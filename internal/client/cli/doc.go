// Package cli provides the interactive Magic Letters field client.
//
// It wires configuration, the local store, the application services and an
// interactive REPL. Typical flow: log in by phone, work on letters offline,
// then sync when a connection is available.
//
// Key features:
//   - Login / Logout by phone number
//   - Create, list and show letters
//   - Write the message, attach up to three photos and a drawing
//   - Mark letters complete and sync them with the server
//   - Technician management for the administrator
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
