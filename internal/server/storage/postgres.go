// Package storage wires the sync server's PostgreSQL connection, runs
// schema migrations, and hands out the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pocketorg/organizer/internal/server/migrations"
	"github.com/pocketorg/organizer/internal/server/syncstore"
	"github.com/pocketorg/organizer/internal/server/users"
)

type PostgresManager struct {
	db      *sql.DB
	users   users.Repository
	records syncstore.Repository
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Users() users.Repository {
	return m.users
}

func (m *PostgresManager) Records() syncstore.Repository {
	return m.records
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}

func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	userRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	recordRepo, err := syncstore.NewPostgresRepository()
	if err != nil {
		return nil, fmt.Errorf("record repo creation error: %w", err)
	}

	m := &PostgresManager{
		db:      db,
		users:   userRepo,
		records: recordRepo,
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
