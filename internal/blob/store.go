package blob

import "context"

// Well-known slot keys. Each slot holds one JSON document and is always
// written as a whole value.
const (
	SlotDB     = "db"     // full normalized store
	SlotMeta   = "meta"   // engine metadata
	SlotQueue  = "queue"  // pending outbox records
	SlotLegacy = "legacy" // pre-migration nested layout, read-only for the engine
)

// Store is a durable key→blob mapping. Load returns (nil, nil) for a missing
// key; interpreting blob contents (and tolerating corrupt ones) is the
// caller's job.
type Store interface {
	// Load returns the blob stored under key, or nil if the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save durably replaces the blob stored under key.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes the blob stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
