package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketorg/organizer/internal/model"
	"github.com/pocketorg/organizer/internal/remote"
)

func seedGuestData(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()

	_, err := env.engine.Upsert(ctx, model.EntityChecklists, rec("cl-1", 100, "name", "Guest list"))
	require.NoError(t, err)
	_, err = env.engine.Upsert(ctx, model.EntityTasks, rec("t-1", 100, "title", "Guest task"))
	require.NoError(t, err)

	_, err = env.engine.Archive(ctx, model.EntityChecklists, "cl-1")
	require.NoError(t, err)
	_, err = env.engine.Remove(ctx, model.EntityTasks, "t-1", false)
	require.NoError(t, err)

	_, err = env.engine.Upsert(ctx, model.EntityDates, rec("d-1", 100, "name", "Guest date"))
	require.NoError(t, err)
}

func batchIDs(batch []model.QueueRecord) map[string]model.Entity {
	out := make(map[string]model.Entity, len(batch))
	for _, op := range batch {
		if op.Data != nil {
			out[op.Data.ID] = op.Entity
		}
	}
	return out
}

func TestMigrateGuestToUser(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		env := newTestEnv(t, &fakeRemote{reachable: true})
		res := env.engine.MigrateGuestToUser(ctx)
		assert.False(t, res.OK)
		assert.Equal(t, MigrationReasonNoUser, res.Reason)
		assert.True(t, env.engine.GuestMode())
	})

	t.Run("uploads live archived and trashed records", func(t *testing.T) {
		rem := onlineRemote("u-7")
		env := newTestEnv(t, rem)
		seedGuestData(t, env)

		res := env.engine.MigrateGuestToUser(ctx)
		require.True(t, res.OK)

		// The follow-up background sync may add a second batch; the
		// migration upload is always the first.
		batches := rem.pushedBatches()
		require.NotEmpty(t, batches)
		ids := batchIDs(batches[0])
		assert.Equal(t, model.EntityChecklists, ids["cl-1"])
		assert.Equal(t, model.EntityTasks, ids["t-1"])
		assert.Equal(t, model.EntityDates, ids["d-1"])
		for _, op := range batches[0] {
			assert.Equal(t, model.OpUpsert, op.Op)
			require.NotNil(t, op.Data)
			assert.NotZero(t, op.Data.UpdatedAt)
		}

		assert.False(t, env.engine.GuestMode())
		meta := env.engine.Meta()
		assert.Equal(t, "u-7", meta.GuestMigratedFor)
		assert.Equal(t, "u-7", meta.UserID)
	})

	t.Run("failure leaves everything retryable", func(t *testing.T) {
		rem := onlineRemote("u-7")
		rem.pushErr = remote.ErrUnavailable
		env := newTestEnv(t, rem)
		seedGuestData(t, env)

		res := env.engine.MigrateGuestToUser(ctx)
		assert.False(t, res.OK)
		assert.Equal(t, MigrationReasonError, res.Reason)
		assert.True(t, env.engine.GuestMode())
		assert.Empty(t, env.engine.Meta().GuestMigratedFor)

		// Clear the fault and retry.
		rem.mu.Lock()
		rem.pushErr = nil
		rem.mu.Unlock()

		retry := env.engine.MigrateGuestToUser(ctx)
		assert.True(t, retry.OK)
		assert.False(t, env.engine.GuestMode())
	})

	t.Run("already migrated for this user is a no-op", func(t *testing.T) {
		rem := onlineRemote("u-7")
		env := newTestEnv(t, rem)
		seedGuestData(t, env)

		require.True(t, env.engine.MigrateGuestToUser(ctx).OK)
		assert.Eventually(t, func() bool {
			return env.engine.PendingOps() == 0
		}, time.Second, 10*time.Millisecond)
		before := len(rem.pushedBatches())

		again := env.engine.MigrateGuestToUser(ctx)
		assert.True(t, again.OK)
		assert.Len(t, rem.pushedBatches(), before)
	})

	t.Run("empty guest store still attributes", func(t *testing.T) {
		rem := onlineRemote("u-7")
		env := newTestEnv(t, rem)

		res := env.engine.MigrateGuestToUser(ctx)
		require.True(t, res.OK)
		assert.False(t, env.engine.GuestMode())
		assert.Empty(t, rem.pushedBatches())
	})
}
