package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := "guest"
	if session, _ := a.remote.GetSession(context.Background()); session != nil {
		s = session.Login
	}
	if pending := a.engine.PendingOps(); pending > 0 {
		s = fmt.Sprintf("%s, %d pending", s, pending)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to PocketOrg CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("porg %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: register, login, logout, list, add, rm, archive, restore, trash, sync, migrate, attach, fetch, exit")

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "l", "list":
			a.list(ctx, args)
		case "add":
			a.add(ctx, args)
		case "rm":
			a.remove(ctx, args)
		case "archive":
			a.archive(ctx, args)
		case "restore":
			a.restore(ctx, args)
		case "trash":
			a.showTrash(ctx)
		case "sync":
			a.sync(ctx)
		case "migrate":
			a.migrate(ctx)
		case "attach":
			a.attach(ctx, args)
		case "fetch":
			a.fetch(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
