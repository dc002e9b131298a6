package engine

import "github.com/pocketorg/organizer/internal/model"

// Merge resolves two versions of one entity collection by last-write-wins.
// The result is seeded from local; a remote record replaces the local one
// only when no local record shares its id or its UpdatedAt is strictly
// greater. Equal timestamps keep the local version. Replacement is whole
// record, never field-level.
//
// Merge is pure: inputs are not modified.
func Merge(local, remote []model.Record) []model.Record {
	out := append([]model.Record(nil), local...)

	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.ID] = i
	}

	for _, rr := range remote {
		i, ok := index[rr.ID]
		if !ok {
			index[rr.ID] = len(out)
			out = append(out, rr)
			continue
		}
		if rr.UpdatedAt > out[i].UpdatedAt {
			out[i] = rr
		}
	}

	return out
}

// MergeSnapshots applies Merge per known collection, treating collections
// missing from changes as empty. Archive and trash side-tables carry over
// from local untouched; the remote exchanges only live collections.
func MergeSnapshots(local *model.Snapshot, changes map[model.Entity][]model.Record) *model.Snapshot {
	out := local.Clone()
	out.Normalize()
	for _, entity := range model.Entities() {
		if remote := changes[entity]; len(remote) > 0 {
			out.Collections[entity] = Merge(out.Collections[entity], remote)
		}
	}
	return out
}
