package syncstore

import (
	"context"
	"fmt"

	"github.com/pocketorg/organizer/internal/dbx"
	"github.com/pocketorg/organizer/internal/model"
)

type PostgresRepository struct{}

func NewPostgresRepository() (*PostgresRepository, error) {
	return &PostgresRepository{}, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, tx dbx.DBTX, rec *StoredRecord) error {

	query :=
		`INSERT INTO records (user_id, entity, record_id, data, updated_at, deleted, archived)
		 VALUES ($1, $2, $3, $4, $5, false, false)
		 ON CONFLICT (user_id, entity, record_id) DO UPDATE
		 SET data = EXCLUDED.data,
		     updated_at = EXCLUDED.updated_at,
		     deleted = false,
		     archived = false
		 WHERE records.updated_at < EXCLUDED.updated_at
		 `

	_, err := tx.ExecContext(ctx, query,
		rec.UserID, rec.Entity, rec.RecordID, rec.Data, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, tx dbx.DBTX, userID string, entity model.Entity, recordID string, ts int64) error {
	return r.markFlag(ctx, tx, "deleted", userID, entity, recordID, ts)
}

func (r *PostgresRepository) MarkArchived(ctx context.Context, tx dbx.DBTX, userID string, entity model.Entity, recordID string, ts int64) error {
	return r.markFlag(ctx, tx, "archived", userID, entity, recordID, ts)
}

func (r *PostgresRepository) markFlag(ctx context.Context, tx dbx.DBTX, flag, userID string, entity model.Entity, recordID string, ts int64) error {

	// An absent row is inserted as a bare tombstone, so a delete arriving
	// before the corresponding upsert still sticks.
	query := fmt.Sprintf(
		`INSERT INTO records (user_id, entity, record_id, data, updated_at, %[1]s)
		 VALUES ($1, $2, $3, 'null'::jsonb, $4, true)
		 ON CONFLICT (user_id, entity, record_id) DO UPDATE
		 SET %[1]s = true,
		     updated_at = EXCLUDED.updated_at
		 WHERE records.updated_at < EXCLUDED.updated_at
		 `, flag)

	_, err := tx.ExecContext(ctx, query, userID, entity, recordID, ts)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SelectUpdated(ctx context.Context, tx dbx.DBTX, userID string, since int64) ([]*StoredRecord, error) {

	query :=
		`SELECT user_id, entity, record_id, data, updated_at, deleted, archived
		 FROM records
		 WHERE user_id = $1 AND updated_at > $2 AND NOT deleted AND NOT archived
		 ORDER BY entity, record_id
		 `

	rows, err := tx.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var out []*StoredRecord
	for rows.Next() {
		rec := &StoredRecord{}
		err := rows.Scan(&rec.UserID, &rec.Entity, &rec.RecordID, &rec.Data, &rec.UpdatedAt, &rec.Deleted, &rec.Archived)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return out, nil
}
