package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/pocketorg/organizer/internal/model"
)

// MigrationReason explains why a guest migration did not complete.
type MigrationReason string

const (
	MigrationReasonNoUser MigrationReason = "no-user"
	MigrationReasonError  MigrationReason = "error"
)

// MigrationResult reports one guest-to-user migration attempt.
type MigrationResult struct {
	OK     bool
	Reason MigrationReason
}

// MigrateGuestToUser pushes everything created while unauthenticated to the
// newly signed-in user's account, in a single atomic batch. Live
// collections, archived and trashed records are all sent as upserts; the
// server applies its usual merge, so records the user already deleted
// elsewhere may reappear and need deleting again. On success local data is
// attributed to the user and a full sync follows; on failure nothing
// changes and the migration can be retried.
func (e *Engine) MigrateGuestToUser(ctx context.Context) MigrationResult {
	session, err := e.remote.GetSession(ctx)
	if err != nil || session == nil {
		return MigrationResult{Reason: MigrationReasonNoUser}
	}

	e.mu.Lock()
	if e.meta.GuestMigratedFor == session.UserID {
		e.mu.Unlock()
		return MigrationResult{OK: true}
	}
	batch := e.guestBatchLocked()
	e.mu.Unlock()

	if len(batch) > 0 {
		if err := e.remote.PushOps(ctx, batch); err != nil {
			e.log.Warn(ctx, "guest migration push failed, local data untouched",
				"ops", len(batch), "error", err)
			return MigrationResult{Reason: MigrationReasonError}
		}
	}

	e.mu.Lock()
	e.meta.GuestMigratedFor = session.UserID
	e.meta.UserID = session.UserID
	e.guest = false
	e.persistMetaLocked(ctx)
	e.mu.Unlock()

	e.log.Info(ctx, "guest data migrated", "user", session.UserID, "ops", len(batch))
	go e.SyncNow(context.Background())

	return MigrationResult{OK: true}
}

// guestBatchLocked builds the one-shot upload: every live record plus the
// payloads of archive and trash entries, each as an upsert stamped with its
// own timestamp. Callers hold e.mu.
func (e *Engine) guestBatchLocked() []model.QueueRecord {
	now := e.nowMillis()
	var batch []model.QueueRecord

	add := func(entity model.Entity, rec model.Record) {
		r := rec.Clone()
		if r.UpdatedAt == 0 {
			r.UpdatedAt = now
		}
		batch = append(batch, model.QueueRecord{
			ID:     uuid.NewString(),
			Op:     model.OpUpsert,
			Entity: entity,
			Data:   &r,
			TS:     now,
		})
	}

	for _, entity := range model.Entities() {
		for _, rec := range e.snap.Collections[entity] {
			add(entity, rec)
		}
	}
	for _, a := range e.snap.Archive {
		add(a.Type, a.Data)
	}
	for _, t := range e.snap.Trash {
		add(t.Type, t.Data)
	}

	return batch
}
