// Package engine implements the local-first storage core: a normalized
// in-memory store persisted as whole JSON blobs, a durable outbox of pending
// mutations, last-write-wins merging against a sync server, a trash and
// archive lifecycle with time-based retention, a one-shot migration from the
// legacy nested layout and a guest-to-user data handover.
//
// An Engine is constructed with Open from explicit dependencies (blob store,
// remote, clock, logger) and runs its background sync triggers only between
// Start and Stop. Every operation stays available offline; the sync
// coordinator degrades to a reasoned no-op when the server is unreachable or
// no user is signed in.
package engine
