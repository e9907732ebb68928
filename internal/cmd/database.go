package cmd

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/the-dev-tools/todolist/db/pkg/sqlitelocal"
	"github.com/the-dev-tools/todolist/db/pkg/sqlitemem"
	"github.com/the-dev-tools/todolist/internal/config"
	"github.com/the-dev-tools/todolist/internal/migrations"
)

// openDatabase opens the configured database and brings its schema up to
// date. The returned func closes it.
func openDatabase(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*sql.DB, func(), error) {
	var (
		db      *sql.DB
		cleanup func()
		err     error
	)
	if cfg.InMemory() {
		db, cleanup, err = sqlitemem.NewSQLiteMem(ctx)
		if err != nil {
			return nil, nil, err
		}
	} else {
		db, err = sqlitelocal.Open(ctx, sqlitelocal.Config{Path: cfg.Path, BusyTimeout: cfg.BusyTimeout})
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = db.Close() }
	}

	err = migrations.Run(ctx, db, migrations.Config{
		DatabasePath: cfg.Path,
		BusyTimeout:  cfg.BusyTimeout,
		Logger:       logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return db, cleanup, nil
}
