package blob

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE blobs (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)

	return NewSQLiteStore(db)
}

func TestSQLiteStore_LoadMissingKey(t *testing.T) {
	s := setupStore(t)

	value, err := s.Load(context.Background(), SlotDB)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, SlotMeta, []byte(`{"v":1}`)))
	require.NoError(t, s.Save(ctx, SlotMeta, []byte(`{"v":2}`)))

	value, err := s.Load(ctx, SlotMeta)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), value)
}

func TestSQLiteStore_SlotsAreIndependent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, SlotDB, []byte("db")))
	require.NoError(t, s.Save(ctx, SlotQueue, []byte("queue")))

	db, err := s.Load(ctx, SlotDB)
	require.NoError(t, err)
	queue, err := s.Load(ctx, SlotQueue)
	require.NoError(t, err)

	assert.Equal(t, []byte("db"), db)
	assert.Equal(t, []byte("queue"), queue)
}

func TestSQLiteStore_DeleteIsIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, SlotLegacy, []byte("old")))
	require.NoError(t, s.Delete(ctx, SlotLegacy))
	require.NoError(t, s.Delete(ctx, SlotLegacy))

	value, err := s.Load(ctx, SlotLegacy)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMigrations_CreateBlobsTable(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(context.Background(), db))

	_, err = db.Exec(`INSERT INTO blobs (key, value) VALUES ('db', x'00')`)
	assert.NoError(t, err)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	original := []byte("payload")
	require.NoError(t, m.Save(ctx, SlotDB, original))
	original[0] = 'X'

	loaded, err := m.Load(ctx, SlotDB)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), loaded)

	loaded[0] = 'Y'
	again, err := m.Load(ctx, SlotDB)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), again)
}
