// Package remote defines the engine's contract with the sync server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic capability interface (Remote): GetSession,
//     PullChanges, PushOps, OnAuthStateChange, Ping.
//  2. An explicit null implementation (Offline) used when no server is
//     configured; the engine keeps working locally and every transport call
//     reports ErrUnavailable instead of raising.
//  3. A JSON-over-HTTP implementation (HTTPRemote) that manages a bearer
//     token, derives the Session from JWT claims, and maps transport
//     failures to sentinel errors.
//
// # Error Handling
//
// Callers match conditions with errors.Is: ErrUnavailable (server not
// reachable), ErrUnauthorized (token rejected).
package remote
