// Package sqlitelocal opens the on-disk SQLite database used by the server.
package sqlitelocal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrDBPathNotFound = errors.New("db path not found")

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// Open opens (creating if needed) the database file at cfg.Path.
//
// Transactions are started with BEGIN IMMEDIATE so a writer takes the
// database lock before its first read; two reorderings can then never
// interleave their read-shift-write sequences.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, ErrDBPathNotFound
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func DSN(cfg Config) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	if cfg.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	q.Set("_txlock", "immediate")
	return "file:" + cfg.Path + "?" + q.Encode()
}
