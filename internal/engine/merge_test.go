package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketorg/organizer/internal/model"
)

func byID(recs []model.Record) map[string]model.Record {
	out := make(map[string]model.Record, len(recs))
	for _, r := range recs {
		out[r.ID] = r
	}
	return out
}

func TestMerge(t *testing.T) {
	t.Run("newer remote wins", func(t *testing.T) {
		local := []model.Record{rec("a", 100, "name", "old")}
		remote := []model.Record{rec("a", 200, "name", "new")}

		got := byID(Merge(local, remote))
		assert.Equal(t, "new", got["a"].Fields["name"])
	})

	t.Run("newer local wins", func(t *testing.T) {
		local := []model.Record{rec("a", 300, "name", "local")}
		remote := []model.Record{rec("a", 200, "name", "remote")}

		got := byID(Merge(local, remote))
		assert.Equal(t, "local", got["a"].Fields["name"])
	})

	t.Run("equal timestamps keep local", func(t *testing.T) {
		local := []model.Record{rec("a", 200, "name", "local")}
		remote := []model.Record{rec("a", 200, "name", "remote")}

		got := byID(Merge(local, remote))
		assert.Equal(t, "local", got["a"].Fields["name"])
	})

	t.Run("disjoint ids union", func(t *testing.T) {
		local := []model.Record{rec("a", 100)}
		remote := []model.Record{rec("b", 100)}

		got := Merge(local, remote)
		require.Len(t, got, 2)
	})

	t.Run("replacement is whole record", func(t *testing.T) {
		local := []model.Record{rec("a", 100, "name", "x", "extra", "kept-locally")}
		remote := []model.Record{rec("a", 200, "name", "y")}

		got := byID(Merge(local, remote))
		assert.Equal(t, "y", got["a"].Fields["name"])
		_, hasExtra := got["a"].Fields["extra"]
		assert.False(t, hasExtra)
	})

	t.Run("inputs not modified", func(t *testing.T) {
		local := []model.Record{rec("a", 100, "name", "local")}
		remote := []model.Record{rec("a", 200, "name", "remote")}

		Merge(local, remote)
		assert.Equal(t, "local", local[0].Fields["name"])
	})

	t.Run("deterministic", func(t *testing.T) {
		local := []model.Record{rec("a", 100), rec("b", 500), rec("c", 300)}
		remote := []model.Record{rec("a", 200), rec("b", 400), rec("d", 100)}

		first := Merge(local, remote)
		second := Merge(local, remote)
		assert.Equal(t, first, second)
	})

	t.Run("commutative up to content", func(t *testing.T) {
		// With all-distinct timestamps, merging either direction must pick
		// the same winners.
		left := []model.Record{rec("a", 100, "v", "l"), rec("b", 600, "v", "l")}
		right := []model.Record{rec("a", 200, "v", "r"), rec("b", 500, "v", "r")}

		lr := byID(Merge(left, right))
		rl := byID(Merge(right, left))
		assert.Equal(t, lr, rl)
	})

	t.Run("idempotent", func(t *testing.T) {
		local := []model.Record{rec("a", 100, "v", "l")}
		remote := []model.Record{rec("a", 200, "v", "r"), rec("b", 50, "v", "r")}

		once := Merge(local, remote)
		twice := Merge(once, remote)
		assert.Equal(t, byID(once), byID(twice))
	})
}

func TestMergeSnapshots(t *testing.T) {
	local := model.NewSnapshot()
	local.Collections[model.EntityTasks] = []model.Record{rec("t-1", 100, "title", "old")}
	local.Trash = []model.TrashRecord{{ID: "tr-1", Type: model.EntityTasks, RefID: "t-9", DeletedAt: 50}}

	changes := map[model.Entity][]model.Record{
		model.EntityTasks:  {rec("t-1", 200, "title", "new")},
		model.EntityDates:  {rec("d-1", 100, "name", "Birthday")},
		"not_a_collection": {rec("x", 100)},
	}

	merged := MergeSnapshots(local, changes)

	assert.Equal(t, "new", byID(merged.Collections[model.EntityTasks])["t-1"].Fields["title"])
	assert.Len(t, merged.Collections[model.EntityDates], 1)

	// Side tables carry over, unknown collections are ignored, and the
	// input snapshot is left untouched.
	require.Len(t, merged.Trash, 1)
	_, leaked := merged.Collections["not_a_collection"]
	assert.False(t, leaked)
	assert.Equal(t, "old", local.Collections[model.EntityTasks][0].Fields["title"])
}
