// Package database owns the SQLite connection and its schema lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/database/migrations"
)

type Repo struct {
	db  *sql.DB
	log zerolog.Logger
}

// New opens the SQLite database at dsn and brings the schema up to date.
func New(ctx context.Context, dsn string, log zerolog.Logger) (*Repo, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite serialises writers anyway; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	r := &Repo{db: db, log: log}
	if err := r.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

func (r *Repo) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, r.db, "."); err != nil {
		return err
	}

	r.log.Info().Msg("database schema up to date")

	return nil
}

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) Close() error {
	return r.db.Close()
}
