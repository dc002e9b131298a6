package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pocketorg/organizer/internal/model"
)

// List returns a deep copy of one entity collection.
func (e *Engine) List(entity model.Entity) ([]model.Record, error) {
	if !entity.Valid() {
		return nil, fmt.Errorf("list %q: %w", entity, ErrUnknownEntity)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	recs := e.snap.Collections[entity]
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Clone())
	}
	return out, nil
}

// Get returns a deep copy of one record, or ErrNotFound.
func (e *Engine) Get(entity model.Entity, id string) (model.Record, error) {
	if !entity.Valid() {
		return model.Record{}, fmt.Errorf("get %q: %w", entity, ErrUnknownEntity)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.snap.Collections[entity] {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return model.Record{}, fmt.Errorf("get %s[%s]: %w", entity, id, ErrNotFound)
}

// Upsert inserts or replaces a record in the named collection and queues the
// surviving version for replication. A record without an id gets a fresh
// uuid; a record without a timestamp is stamped with the current time. When
// an existing record is newer than the incoming one, the existing record
// wins, and the winner is still re-persisted and re-queued, so replay of a
// stale write converges instead of diverging.
//
// The returned record is the surviving version.
func (e *Engine) Upsert(ctx context.Context, entity model.Entity, rec model.Record) (model.Record, error) {
	if !entity.Valid() {
		return model.Record{}, fmt.Errorf("upsert into %q: %w", entity, ErrUnknownEntity)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = e.nowMillis()
	}

	recs := e.snap.Collections[entity]
	survivor := rec
	found := false
	for i, existing := range recs {
		if existing.ID != rec.ID {
			continue
		}
		found = true
		if rec.UpdatedAt > existing.UpdatedAt {
			recs[i] = rec
		} else {
			survivor = existing
		}
		break
	}
	if !found {
		e.snap.Collections[entity] = append(recs, rec)
	}

	queued := survivor.Clone()
	e.persistDBLocked(ctx)
	e.enqueueLocked(ctx, model.OpUpsert, entity, &queued, "")
	e.notify(ctx, entity)

	return survivor.Clone(), nil
}

// Remove deletes a record from its collection. With permanent false the
// record moves to the trash side-table, stamped with the deletion time that
// later drives the retention sweep. With permanent true it is dropped
// outright. Returns false with no side effects when the record is absent.
func (e *Engine) Remove(ctx context.Context, entity model.Entity, id string, permanent bool) (bool, error) {
	if !entity.Valid() {
		return false, fmt.Errorf("remove from %q: %w", entity, ErrUnknownEntity)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	recs := e.snap.Collections[entity]
	idx := -1
	for i, r := range recs {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	removed := recs[idx]
	e.snap.Collections[entity] = append(recs[:idx], recs[idx+1:]...)

	if !permanent {
		e.snap.Trash = append(e.snap.Trash, model.TrashRecord{
			ID:        uuid.NewString(),
			Type:      entity,
			RefID:     removed.ID,
			Data:      removed.Clone(),
			DeletedAt: e.nowMillis(),
		})
	}

	e.persistDBLocked(ctx)
	e.enqueueLocked(ctx, model.OpDelete, entity, nil, id)
	e.notify(ctx, entity)

	return true, nil
}

// Archive moves a record out of its live collection into the archive
// side-table and returns the archive entry id. Archived records do not
// appear in List and are excluded from sync merges until restored.
func (e *Engine) Archive(ctx context.Context, entity model.Entity, id string) (string, error) {
	if !entity.Valid() {
		return "", fmt.Errorf("archive from %q: %w", entity, ErrUnknownEntity)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	recs := e.snap.Collections[entity]
	idx := -1
	for i, r := range recs {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", fmt.Errorf("archive %s[%s]: %w", entity, id, ErrNotFound)
	}

	archived := recs[idx]
	e.snap.Collections[entity] = append(recs[:idx], recs[idx+1:]...)

	entry := model.ArchiveRecord{
		ID:         uuid.NewString(),
		Type:       entity,
		RefID:      archived.ID,
		Data:       archived.Clone(),
		ArchivedAt: e.nowMillis(),
	}
	e.snap.Archive = append(e.snap.Archive, entry)

	e.persistDBLocked(ctx)
	e.enqueueLocked(ctx, model.OpArchive, entity, nil, id)
	e.notify(ctx, entity)

	return entry.ID, nil
}

// RestoreFromArchive moves an archive entry back into its live collection.
// The restored record is re-stamped with the current time so it wins the
// merge against any copy that went stale while archived, and it overwrites a
// record that reclaimed its id in the meantime.
func (e *Engine) RestoreFromArchive(ctx context.Context, archiveID string) (model.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, a := range e.snap.Archive {
		if a.ID == archiveID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Record{}, fmt.Errorf("restore archive[%s]: %w", archiveID, ErrNotFound)
	}

	entry := e.snap.Archive[idx]
	e.snap.Archive = append(e.snap.Archive[:idx], e.snap.Archive[idx+1:]...)

	return e.reviveLocked(ctx, entry.Type, entry.Data, model.OpRestore)
}

// RestoreFromTrash moves a trash entry back into its live collection, with
// the same re-stamping rules as RestoreFromArchive.
func (e *Engine) RestoreFromTrash(ctx context.Context, trashID string) (model.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, t := range e.snap.Trash {
		if t.ID == trashID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Record{}, fmt.Errorf("restore trash[%s]: %w", trashID, ErrNotFound)
	}

	entry := e.snap.Trash[idx]
	e.snap.Trash = append(e.snap.Trash[:idx], e.snap.Trash[idx+1:]...)

	return e.reviveLocked(ctx, entry.Type, entry.Data, model.OpRestore)
}

// reviveLocked reinserts a side-table record into its live collection.
// Callers hold e.mu and have already detached the side-table entry.
func (e *Engine) reviveLocked(ctx context.Context, entity model.Entity, rec model.Record, op model.Op) (model.Record, error) {
	rec = rec.Clone()
	rec.UpdatedAt = e.nowMillis()

	recs := e.snap.Collections[entity]
	replaced := false
	for i, r := range recs {
		if r.ID == rec.ID {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		e.snap.Collections[entity] = append(recs, rec)
	}

	queued := rec.Clone()
	e.persistDBLocked(ctx)
	e.enqueueLocked(ctx, op, entity, &queued, "")
	e.notify(ctx, entity)

	return rec.Clone(), nil
}

// ListArchive returns a copy of the archive side-table.
func (e *Engine) ListArchive() []model.ArchiveRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ArchiveRecord, 0, len(e.snap.Archive))
	for _, a := range e.snap.Archive {
		a.Data = a.Data.Clone()
		out = append(out, a)
	}
	return out
}

// ListTrash returns a copy of the trash side-table.
func (e *Engine) ListTrash() []model.TrashRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.TrashRecord, 0, len(e.snap.Trash))
	for _, t := range e.snap.Trash {
		t.Data = t.Data.Clone()
		out = append(out, t)
	}
	return out
}

// Snapshot returns a deep copy of the entire store, detached from internal
// state.
func (e *Engine) Snapshot() *model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.Clone()
}
