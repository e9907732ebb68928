// Package migrations registers the schema migrations of the todolist
// database. Importing it is enough to make them visible to migrate.List.
package migrations

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/the-dev-tools/todolist/internal/migrate"
)

type Config struct {
	DatabasePath string
	BusyTimeout  time.Duration
	Logger       *slog.Logger
}

// Run applies every registered migration that has not finished yet.
func Run(ctx context.Context, db *sql.DB, cfg Config) error {
	runner, err := migrate.NewRunner(db, migrate.Config{
		DatabasePath: cfg.DatabasePath,
		BusyTimeout:  cfg.BusyTimeout,
	}, cfg.Logger)
	if err != nil {
		return err
	}
	return runner.ApplyAll(ctx)
}
