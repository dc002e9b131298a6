package syncstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pocketorg/organizer/internal/dbx"
	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/shared"
)

// Service applies client op batches and answers incremental pulls.
type Service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// ApplyOps applies a batch atomically: either every operation lands or the
// transaction rolls back and the client keeps its queue. Individual
// operations resolve against stored rows by last-write-wins, so replaying
// an already-applied batch is harmless.
func (s *Service) ApplyOps(ctx context.Context, userID string, ops []model.QueueRecord) error {

	for _, op := range ops {
		if !op.Entity.Valid() {
			return fmt.Errorf("%w: %q", shared.ErrorUnknownEntity, op.Entity)
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, op := range ops {
			if err := s.applyOp(ctx, tx, userID, op); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("error applying ops: %w", err)
	}

	return nil
}

func (s *Service) applyOp(ctx context.Context, tx dbx.DBTX, userID string, op model.QueueRecord) error {
	switch op.Op {
	case model.OpUpsert, model.OpRestore:
		if op.Data == nil || op.Data.ID == "" {
			return fmt.Errorf("%w: %s without record data", shared.ErrorInvalidOp, op.Op)
		}
		data, err := json.Marshal(op.Data)
		if err != nil {
			return fmt.Errorf("error encoding record: %w", err)
		}
		return s.repo.Upsert(ctx, tx, &StoredRecord{
			UserID:    userID,
			Entity:    op.Entity,
			RecordID:  op.Data.ID,
			Data:      data,
			UpdatedAt: op.Data.UpdatedAt,
		})

	case model.OpDelete:
		if op.Key == "" {
			return fmt.Errorf("%w: delete without key", shared.ErrorInvalidOp)
		}
		return s.repo.MarkDeleted(ctx, tx, userID, op.Entity, op.Key, op.TS)

	case model.OpArchive:
		if op.Key == "" {
			return fmt.Errorf("%w: archive without key", shared.ErrorInvalidOp)
		}
		return s.repo.MarkArchived(ctx, tx, userID, op.Entity, op.Key, op.TS)

	default:
		return fmt.Errorf("%w: %q", shared.ErrorInvalidOp, op.Op)
	}
}

// ChangesSince returns the user's live records changed after since, grouped
// by entity and ready for the client merge.
func (s *Service) ChangesSince(ctx context.Context, userID string, since int64) (map[model.Entity][]model.Record, error) {

	rows, err := s.repo.SelectUpdated(ctx, s.db, userID, since)
	if err != nil {
		return nil, fmt.Errorf("error selecting changes: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	changes := make(map[model.Entity][]model.Record)
	for _, row := range rows {
		var rec model.Record
		if err := json.Unmarshal(row.Data, &rec); err != nil {
			return nil, fmt.Errorf("error decoding record %s[%s]: %w", row.Entity, row.RecordID, err)
		}
		rec.ID = row.RecordID
		rec.UpdatedAt = row.UpdatedAt
		changes[row.Entity] = append(changes[row.Entity], rec)
	}

	return changes, nil
}
