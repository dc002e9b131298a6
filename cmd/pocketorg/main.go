package main

import (
	"context"
	"log"

	"github.com/pocketorg/organizer/internal/cli"
	"github.com/pocketorg/organizer/internal/cli/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
