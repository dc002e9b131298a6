package engine

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pocketorg/organizer/internal/blob"
	"github.com/pocketorg/organizer/internal/model"
)

// legacySection is the nested version-1 shape for list-plus-items domains:
// a list of containers and a map from container id to its items.
type legacySection struct {
	Lists []map[string]any            `json:"lists"`
	Items map[string][]map[string]any `json:"items"`
}

// legacyLayout is the whole version-1 blob. Every field is optional; the
// migrator converts whatever is present.
type legacyLayout struct {
	Checklists   legacySection    `json:"checklists"`
	Tasks        legacySection    `json:"tasks"`
	Shopping     legacySection    `json:"shopping"`
	Receipts     []map[string]any `json:"receipts"`
	LoyaltyCards []map[string]any `json:"loyaltyCards"`
	Dates        []map[string]any `json:"dates"`
}

// migrateLegacy converts the nested version-1 blob into normalized
// collections, exactly once per install. The stamp in metadata gates it: an
// absent legacy blob still stamps (nothing to do, ever), while a parse
// failure leaves the stamp unset so the next open retries.
func (e *Engine) migrateLegacy(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.meta.MigratedLegacyAt != 0 {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			e.log.Error(ctx, "legacy migration panicked, will retry on next open", "panic", p)
		}
	}()

	data, err := e.blobs.Load(ctx, blob.SlotLegacy)
	if err != nil {
		e.log.Warn(ctx, "failed to load legacy blob, will retry on next open", "error", err)
		return
	}
	if len(data) == 0 {
		e.meta.MigratedLegacyAt = e.nowMillis()
		e.persistMetaLocked(ctx)
		return
	}

	var layout legacyLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		e.log.Warn(ctx, "legacy blob is unreadable, will retry on next open", "error", err)
		return
	}

	converted := e.convertLegacy(&layout)
	migrated := 0
	for entity, recs := range converted {
		for _, rec := range recs {
			e.importLocked(entity, rec)
			migrated++
		}
	}

	e.meta.MigratedLegacyAt = e.nowMillis()
	e.persistDBLocked(ctx)
	e.persistMetaLocked(ctx)
	if migrated > 0 {
		e.log.Info(ctx, "migrated legacy data", "records", migrated)
	}
}

// importLocked merges one migrated record into its collection by the usual
// last-write-wins rule, without queueing or notifying. Callers hold e.mu.
func (e *Engine) importLocked(entity model.Entity, rec model.Record) {
	recs := e.snap.Collections[entity]
	for i, existing := range recs {
		if existing.ID != rec.ID {
			continue
		}
		if rec.UpdatedAt > existing.UpdatedAt {
			recs[i] = rec
		}
		return
	}
	e.snap.Collections[entity] = append(recs, rec)
}

// convertLegacy maps the nested layout onto normalized collections. Items
// gain a parent reference taken from their position in the nesting; missing
// ids, names and timestamps get defaults so the output always satisfies the
// store's invariants.
func (e *Engine) convertLegacy(layout *legacyLayout) map[model.Entity][]model.Record {
	out := make(map[model.Entity][]model.Record)

	section := func(sec legacySection, listEntity, itemEntity model.Entity, parentKey string, itemDefaults map[string]any) {
		for _, raw := range sec.Lists {
			out[listEntity] = append(out[listEntity], e.legacyRecord(raw, nil, nil))
		}
		for parentID, items := range sec.Items {
			for _, raw := range items {
				out[itemEntity] = append(out[itemEntity],
					e.legacyRecord(raw, map[string]any{parentKey: parentID}, itemDefaults))
			}
		}
	}

	section(layout.Checklists, model.EntityChecklists, model.EntityChecklistItems, "list_id", nil)
	section(layout.Tasks, model.EntityTaskProjects, model.EntityTasks, "project_id",
		map[string]any{"priority": "normal"})
	section(layout.Shopping, model.EntityShoppingLists, model.EntityShoppingItems, "list_id", nil)

	for _, raw := range layout.Receipts {
		out[model.EntityReceipts] = append(out[model.EntityReceipts],
			e.legacyRecord(raw, nil, map[string]any{"category": "other"}))
	}
	for _, raw := range layout.LoyaltyCards {
		out[model.EntityLoyaltyCards] = append(out[model.EntityLoyaltyCards], e.legacyRecord(raw, nil, nil))
	}
	for _, raw := range layout.Dates {
		out[model.EntityDates] = append(out[model.EntityDates], e.legacyRecord(raw, nil, nil))
	}

	return out
}

// legacyRecord builds a normalized record from one raw legacy object.
// force overwrites fields unconditionally (parent references implied by the
// nesting); defaults fill in only when absent.
func (e *Engine) legacyRecord(raw, force, defaults map[string]any) model.Record {
	fields := make(map[string]any, len(raw))
	var rec model.Record

	for k, v := range raw {
		switch k {
		case "id":
			if s, ok := v.(string); ok {
				rec.ID = s
			}
		case "updatedAt", "updated_at":
			rec.UpdatedAt = legacyMillis(v)
		default:
			fields[k] = v
		}
	}

	for k, v := range force {
		fields[k] = v
	}
	for k, v := range defaults {
		if _, present := fields[k]; !present {
			fields[k] = v
		}
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = e.nowMillis()
	}
	if _, named := fields["name"]; !named {
		if _, titled := fields["title"]; !titled {
			fields["name"] = "Untitled"
		}
	}

	rec.Fields = fields
	return rec
}

func legacyMillis(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
