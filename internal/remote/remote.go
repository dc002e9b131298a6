package remote

import (
	"context"
	"errors"

	"github.com/pocketorg/organizer/internal/model"
)

var (
	// ErrUnavailable indicates the sync server could not be reached.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized indicates the server rejected the session token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Session identifies the authenticated user behind the current token.
type Session struct {
	UserID string
	Login  string
}

// Remote is the engine's contract with the sync server. Implementations are
// selected at construction time: Offline for pure local operation, HTTPRemote
// for a live server. The engine must stay fully functional when every
// transport call fails with ErrUnavailable.
type Remote interface {
	// GetSession returns the current authenticated identity, or (nil, nil)
	// when no identity is available.
	GetSession(ctx context.Context) (*Session, error)

	// PullChanges returns the entity collections changed since the given
	// logical time, or (nil, nil) when there are none.
	PullChanges(ctx context.Context, since int64) (map[model.Entity][]model.Record, error)

	// PushOps applies a batch of queued operations remotely. The batch is
	// atomic from the caller's perspective: either every operation was
	// accepted or the returned error means none were.
	PushOps(ctx context.Context, batch []model.QueueRecord) error

	// OnAuthStateChange registers a callback fired whenever the
	// authenticated identity changes. The callback receives the new session,
	// or nil on logout.
	OnAuthStateChange(fn func(*Session))

	// Ping probes server reachability.
	Ping(ctx context.Context) error
}
