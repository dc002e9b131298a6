// Package syncstore persists each user's organizer records on the server
// and resolves concurrent writes by last-write-wins on the record
// timestamp.
package syncstore

import (
	"context"

	"github.com/pocketorg/organizer/internal/dbx"
	"github.com/pocketorg/organizer/internal/model"
)

// StoredRecord is one row of the per-user record table. Data is the flat
// record JSON; Deleted and Archived rows are kept as tombstones so a
// late stale upsert from another device cannot resurrect them silently.
type StoredRecord struct {
	UserID    string
	Entity    model.Entity
	RecordID  string
	Data      []byte
	UpdatedAt int64
	Deleted   bool
	Archived  bool
}

// Repository is the record-table access used inside sync transactions.
// Every method runs against the supplied DBTX, so a service can batch
// multiple calls atomically.
type Repository interface {
	// Upsert writes the record unless the stored row has an equal or newer
	// timestamp. It also clears tombstone flags when the write wins.
	Upsert(ctx context.Context, tx dbx.DBTX, rec *StoredRecord) error

	// MarkDeleted tombstones a record if ts is newer than the stored row.
	// Missing rows are created as tombstones so ordering doesn't matter.
	MarkDeleted(ctx context.Context, tx dbx.DBTX, userID string, entity model.Entity, recordID string, ts int64) error

	// MarkArchived flags a record as archived if ts is newer.
	MarkArchived(ctx context.Context, tx dbx.DBTX, userID string, entity model.Entity, recordID string, ts int64) error

	// SelectUpdated returns live rows changed after since, ordered by
	// entity.
	SelectUpdated(ctx context.Context, tx dbx.DBTX, userID string, since int64) ([]*StoredRecord, error)
}
