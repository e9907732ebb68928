package sqlitemem

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc"
)

// NewSQLiteMem opens an isolated shared-cache in-memory database with the
// schema applied. The pool is capped at one connection so every transaction
// is serialised, which is what the ordering writes rely on.
func NewSQLiteMem(ctx context.Context) (*sql.DB, func(), error) {
	db, err := sql.Open("sqlite", DSN(ulid.Make().String()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := sqlc.CreateLocalTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, func() { _ = db.Close() }, nil
}

// DSN builds the connection string for a named in-memory database.
func DSN(name string) string {
	return fmt.Sprintf("file:todolist_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}
