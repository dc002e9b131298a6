package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for credentials, creates an account on the server, and
// offers to migrate locally created guest data to the new account.
func (a *App) Register(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.remote.Register(ctx, login, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	a.maybeMigrateGuestData(ctx)
	return nil
}

// Login prompts for credentials and authenticates against the server. Local
// data stays available either way; a successful login just attributes it
// and triggers a sync.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter login", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.remote.Login(ctx, login, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	a.maybeMigrateGuestData(ctx)
	return nil
}

// Logout drops the session token. Local data is untouched and keeps
// queueing changes for the next login.
func (a *App) Logout(ctx context.Context) error {
	a.remote.Logout()
	fmt.Println("Logged out")
	return nil
}

func (a *App) maybeMigrateGuestData(ctx context.Context) {
	if !a.engine.GuestMode() {
		return
	}
	res := a.engine.MigrateGuestToUser(ctx)
	if res.OK {
		fmt.Println("Local guest data migrated to your account")
	} else {
		log.Printf("Guest data migration deferred: %s", res.Reason)
	}
}
