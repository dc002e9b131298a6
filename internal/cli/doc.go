// Package cli provides the interactive PocketOrg command-line client.
//
// It wires configuration, the local sync engine, and an interactive REPL.
// Data lives locally first: every command works as a guest, and logging in
// attributes the local data to an account and starts syncing it.
//
// Key features:
//   - Register / Login / Logout
//   - List, add, remove, archive, and restore organizer records
//   - Trash inspection and restore
//   - Manual sync and guest-to-user migration
//   - Receipt attachments via presigned object-storage URLs
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
