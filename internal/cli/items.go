package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pocketorg/organizer/internal/model"
)

func usageEntities() string {
	names := make([]string, 0, len(model.Entities()))
	for _, e := range model.Entities() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

func (a *App) list(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: list <entity>")
		fmt.Println("Entities:", usageEntities())
		return
	}

	recs, err := a.engine.List(model.Entity(args[0]))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(recs) == 0 {
		fmt.Println("(empty)")
		return
	}

	for _, r := range recs {
		name, _ := r.Fields["name"].(string)
		if name == "" {
			name, _ = r.Fields["title"].(string)
		}
		fmt.Printf("%s  %s  (updated %s)\n", r.ID, name, millisToTime(r.UpdatedAt).Format(time.RFC3339))
	}
}

func (a *App) add(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: add <entity> <name...>")
		return
	}

	rec := model.Record{Fields: map[string]any{"name": strings.Join(args[1:], " ")}}
	saved, err := a.engine.Upsert(ctx, model.Entity(args[0]), rec)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Added", saved.ID)
}

func (a *App) remove(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: rm <entity> <id> [--permanent]")
		return
	}

	permanent := len(args) > 2 && args[2] == "--permanent"
	removed, err := a.engine.Remove(ctx, model.Entity(args[0]), args[1], permanent)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if !removed {
		fmt.Println("Not found")
		return
	}
	if permanent {
		fmt.Println("Deleted permanently")
	} else {
		fmt.Println("Moved to trash")
	}
}

func (a *App) archive(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: archive <entity> <id>")
		return
	}

	archiveID, err := a.engine.Archive(ctx, model.Entity(args[0]), args[1])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Archived as", archiveID)
}

func (a *App) restore(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: restore trash|archive <entry-id>")
		return
	}

	var err error
	var rec model.Record
	switch args[0] {
	case "trash":
		rec, err = a.engine.RestoreFromTrash(ctx, args[1])
	case "archive":
		rec, err = a.engine.RestoreFromArchive(ctx, args[1])
	default:
		fmt.Println("Usage: restore trash|archive <entry-id>")
		return
	}

	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Restored", rec.ID)
}

func (a *App) showTrash(ctx context.Context) {
	trash := a.engine.ListTrash()
	if len(trash) == 0 {
		fmt.Println("(trash is empty)")
		return
	}
	for _, t := range trash {
		fmt.Printf("%s  %s/%s  (deleted %s)\n", t.ID, t.Type, t.RefID, millisToTime(t.DeletedAt).Format(time.RFC3339))
	}
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
