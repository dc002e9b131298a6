package cli

import (
	"context"
	"fmt"
)

func (a *App) sync(ctx context.Context) {
	res := a.engine.SyncNow(ctx)
	if !res.OK {
		fmt.Println("Sync skipped:", res.Reason)
		return
	}
	fmt.Printf("Synced: pushed %d, pulled %d\n", res.Pushed, res.Pulled)
}

func (a *App) migrate(ctx context.Context) {
	if !a.engine.GuestMode() {
		fmt.Println("Nothing to migrate: local data already belongs to an account")
		return
	}
	res := a.engine.MigrateGuestToUser(ctx)
	if !res.OK {
		fmt.Println("Migration skipped:", res.Reason)
		return
	}
	fmt.Println("Guest data migrated")
}
