package engine

import (
	"context"
	"time"
)

// trashTTL is the retention window for soft-deleted records.
const trashTTL = 7 * 24 * time.Hour

// SweepTrash drops every trash entry whose age has reached the retention
// window and returns how many were purged. Runs on open and may be invoked
// by callers at any time; a no-op sweep does not touch persistence.
func (e *Engine) SweepTrash(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.nowMillis() - trashTTL.Milliseconds()
	kept := e.snap.Trash[:0]
	purged := 0
	for _, t := range e.snap.Trash {
		if t.DeletedAt <= cutoff {
			purged++
			continue
		}
		kept = append(kept, t)
	}
	if purged == 0 {
		return 0
	}

	e.snap.Trash = kept
	e.persistDBLocked(ctx)
	e.log.Info(ctx, "purged expired trash entries", "count", purged)
	return purged
}
