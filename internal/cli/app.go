package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"

	_ "modernc.org/sqlite"

	"github.com/pocketorg/organizer/internal/blob"
	"github.com/pocketorg/organizer/internal/cli/config"
	"github.com/pocketorg/organizer/internal/engine"
	"github.com/pocketorg/organizer/internal/remote"
)

type App struct {
	config *config.Config
	engine *engine.Engine
	remote *remote.HTTPRemote
	db     *sql.DB
	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	blobs, db, err := blob.OpenSQLite(ctx, c.DataFile)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	rm := remote.NewHTTPRemote(c.ServerEndpointAddr)

	eng, err := engine.Open(ctx, engine.Config{
		Blobs:        blobs,
		Remote:       rm,
		SyncInterval: c.SyncInterval,
		PingInterval: c.OnlineCheckInterval,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{config: c, engine: eng, remote: rm, db: db, reader: bufio.NewReader(os.Stdin)}

	eng.Subscribe(engine.TopicStorageSynced, func(engine.Event) {
		log.Println("synchronized with server")
	})

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	a.engine.Start(ctx)
	defer func() {
		a.engine.Stop()
		_ = a.db.Close()
	}()

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	session, _ := a.remote.GetSession(context.Background())
	return session != nil
}
