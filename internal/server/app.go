// Package server initializes and runs the sync server: it wires the
// PostgreSQL storage, the account and sync services, and the HTTP API, and
// handles graceful shutdown on termination signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketorg/organizer/internal/logging"
	"github.com/pocketorg/organizer/internal/server/attachments"
	"github.com/pocketorg/organizer/internal/server/config"
	"github.com/pocketorg/organizer/internal/server/httpapi"
	"github.com/pocketorg/organizer/internal/server/storage"
	"github.com/pocketorg/organizer/internal/server/syncstore"
	"github.com/pocketorg/organizer/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *storage.PostgresManager
	server  *http.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	manager, err := storage.NewPostgresManager(context.Background(), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(manager.Users(), c)
	ss := syncstore.NewService(manager.Conn(), manager.Records())
	as := attachments.NewService(c)

	router := httpapi.NewRouter(httpapi.NewHandlers(logger, us, ss, as), []byte(c.SecretKey))
	srv := httpapi.NewServer(c.EndpointAddr, router)

	return &App{config: c, logger: logger, storage: manager, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting sync server", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	go func() {
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "server failed", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	if err := httpapi.Shutdown(app.server, 30*time.Second); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}
	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
