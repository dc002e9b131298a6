package engine

import (
	"context"
	"errors"

	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/remote"
)

// SyncReason explains why a sync attempt did not run or did not finish.
type SyncReason string

const (
	SyncReasonOffline SyncReason = "offline"
	SyncReasonNoUser  SyncReason = "no-user"
	SyncReasonBusy    SyncReason = "busy"
	SyncReasonError   SyncReason = "error"
)

// SyncResult reports one sync attempt. Reason is empty on success.
type SyncResult struct {
	OK     bool
	Reason SyncReason
	Pushed int
	Pulled int
}

// SyncNow runs one push-then-pull exchange with the server. Preconditions
// are checked in a fixed order so callers see a stable reason: reachability
// first, then an authenticated session, then the single-flight guard. Only
// one sync runs at a time; a second caller gets busy immediately instead of
// queueing behind the first.
func (e *Engine) SyncNow(ctx context.Context) SyncResult {
	if err := e.remote.Ping(ctx); err != nil {
		return SyncResult{Reason: SyncReasonOffline}
	}

	session, err := e.remote.GetSession(ctx)
	if err != nil || session == nil {
		return SyncResult{Reason: SyncReasonNoUser}
	}

	e.syncMu.Lock()
	if e.syncing {
		e.syncMu.Unlock()
		return SyncResult{Reason: SyncReasonBusy}
	}
	e.syncing = true
	e.syncMu.Unlock()

	defer func() {
		e.syncMu.Lock()
		e.syncing = false
		e.syncMu.Unlock()
	}()

	return e.syncOnce(ctx, session)
}

// syncOnce does the actual exchange. The outbox is drained append-safely:
// the batch is a snapshot taken under the lock, and on success only the ids
// of that batch are removed, so operations enqueued while the push was in
// flight survive for the next cycle.
func (e *Engine) syncOnce(ctx context.Context, session *remote.Session) SyncResult {
	e.mu.Lock()
	batch := append([]model.QueueRecord(nil), e.queue...)
	since := e.meta.LastSync
	e.mu.Unlock()

	if len(batch) > 0 {
		if err := e.remote.PushOps(ctx, batch); err != nil {
			e.log.Warn(ctx, "push failed, queue retained", "ops", len(batch), "error", err)
			return SyncResult{Reason: syncFailureReason(err)}
		}
		e.removeFromQueue(ctx, batch)
	}

	changes, err := e.remote.PullChanges(ctx, since)
	if err != nil {
		e.log.Warn(ctx, "pull failed", "error", err)
		return SyncResult{Reason: syncFailureReason(err)}
	}

	changedEntities := e.applyChanges(ctx, changes, session)

	e.bus.Publish(ctx, Event{Topic: TopicStorageSynced})
	for _, entity := range changedEntities {
		e.notify(ctx, entity)
	}

	e.log.Info(ctx, "sync finished", "pushed", len(batch), "pulled", pulledCount(changes))
	return SyncResult{OK: true, Pushed: len(batch), Pulled: pulledCount(changes)}
}

// applyChanges merges pulled collections into the store and advances the
// sync watermark. Returns the entities whose collections changed.
func (e *Engine) applyChanges(ctx context.Context, changes map[model.Entity][]model.Record, session *remote.Session) []model.Entity {
	e.mu.Lock()
	defer e.mu.Unlock()

	var changed []model.Entity
	if len(changes) > 0 {
		e.snap = MergeSnapshots(e.snap, changes)
		e.persistDBLocked(ctx)
		for _, entity := range model.Entities() {
			if len(changes[entity]) > 0 {
				changed = append(changed, entity)
			}
		}
	}

	e.meta.LastSync = e.nowMillis()
	e.meta.UserID = session.UserID
	e.persistMetaLocked(ctx)

	return changed
}

// removeFromQueue drops exactly the given batch from the outbox by id.
func (e *Engine) removeFromQueue(ctx context.Context, batch []model.QueueRecord) {
	pushed := make(map[string]struct{}, len(batch))
	for _, op := range batch {
		pushed[op.ID] = struct{}{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.queue[:0]
	for _, op := range e.queue {
		if _, ok := pushed[op.ID]; ok {
			continue
		}
		kept = append(kept, op)
	}
	e.queue = kept
	e.persistQueueLocked(ctx)
}

func syncFailureReason(err error) SyncReason {
	if errors.Is(err, remote.ErrUnavailable) {
		return SyncReasonOffline
	}
	return SyncReasonError
}

func pulledCount(changes map[model.Entity][]model.Record) int {
	n := 0
	for _, recs := range changes {
		n += len(recs)
	}
	return n
}
