package remote

import (
	"context"

	"github.com/pocketorg/organizer/internal/model"
)

// Offline is the explicit null implementation of Remote: no session, no
// reachability, and transport calls that fail with ErrUnavailable instead of
// raising. An engine constructed with it degrades to pure offline operation.
type Offline struct{}

func NewOffline() *Offline {
	return &Offline{}
}

func (*Offline) GetSession(context.Context) (*Session, error) {
	return nil, nil
}

func (*Offline) PullChanges(context.Context, int64) (map[model.Entity][]model.Record, error) {
	return nil, ErrUnavailable
}

func (*Offline) PushOps(context.Context, []model.QueueRecord) error {
	return ErrUnavailable
}

func (*Offline) OnAuthStateChange(func(*Session)) {}

func (*Offline) Ping(context.Context) error {
	return ErrUnavailable
}
