package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Status represents the state of a migration record.
type Status string

const (
	// StatusStarted marks an in-flight migration.
	StatusStarted Status = "started"
	// StatusFinished marks a successfully completed migration.
	StatusFinished Status = "finished"
)

// ErrChecksumMismatch is returned when the stored checksum differs from the
// caller provided checksum for a finished migration.
var ErrChecksumMismatch = errors.New("migrate: checksum mismatch for migration")

// Record models a row in schema_migrations.
type Record struct {
	ID         string
	Status     Status
	Checksum   string
	Attempts   int
	StartedAt  time.Time
	FinishedAt sql.NullTime
	LastError  sql.NullString
}

const createSchemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL CHECK (status IN ('started', 'finished')),
    checksum TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    last_error TEXT
);
`

const createSchemaMigrationsStatusIdx = `
CREATE INDEX IF NOT EXISTS idx_schema_migrations_status ON schema_migrations(status);
`

const selectRecord = `SELECT id, status, checksum, attempts, started_at, finished_at, last_error
         FROM schema_migrations
         WHERE id = ?`

// Store provides helpers for manipulating schema_migrations metadata.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Store bound to the provided database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema ensures the metadata table and indexes exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSchemaMigrationsTable); err != nil {
		return fmt.Errorf("migrate: creating schema_migrations table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createSchemaMigrationsStatusIdx); err != nil {
		return fmt.Errorf("migrate: creating schema_migrations status index: %w", err)
	}
	return nil
}

// StartParams describes the data recorded when a migration begins.
type StartParams struct {
	ID        string
	Checksum  string
	StartedAt time.Time
}

// MarkStarted inserts or updates the metadata row for an in-progress migration.
// It increments the attempts counter and clears last_error. If the existing
// record is finished with a different checksum, it returns ErrChecksumMismatch.
func (s *Store) MarkStarted(ctx context.Context, tx *sql.Tx, params StartParams) (Record, error) {
	existing, err := getRecord(ctx, tx, params.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Record{}, err
	}

	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (id, status, checksum, attempts, started_at, last_error)
         VALUES (?, ?, ?, 1, ?, NULL)`,
			params.ID, StatusStarted, params.Checksum, params.StartedAt.UTC())
		if err != nil {
			return Record{}, fmt.Errorf("migrate: insert started: %w", err)
		}
		if err := ensureRowsAffected(res, "insert started"); err != nil {
			return Record{}, err
		}
	} else {
		if existing.Status == StatusFinished && existing.Checksum != params.Checksum {
			return Record{}, fmt.Errorf("%w: stored=%s new=%s", ErrChecksumMismatch, existing.Checksum, params.Checksum)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE schema_migrations
         SET status = ?,
             checksum = ?,
             attempts = attempts + 1,
             started_at = ?,
             last_error = NULL
         WHERE id = ?`,
			StatusStarted, params.Checksum, params.StartedAt.UTC(), params.ID)
		if err != nil {
			return Record{}, fmt.Errorf("migrate: update started: %w", err)
		}
		if err := ensureRowsAffected(res, "update started"); err != nil {
			return Record{}, err
		}
	}

	return getRecord(ctx, tx, params.ID)
}

// FinishParams describes the data recorded when a migration completes.
type FinishParams struct {
	ID         string
	FinishedAt time.Time
}

// MarkFinished marks a migration as finished and clears its error.
func (s *Store) MarkFinished(ctx context.Context, tx *sql.Tx, params FinishParams) (Record, error) {
	res, err := tx.ExecContext(
		ctx,
		`UPDATE schema_migrations
         SET status = ?,
             finished_at = ?,
             last_error = NULL
         WHERE id = ?`,
		StatusFinished,
		params.FinishedAt.UTC(),
		params.ID,
	)
	if err != nil {
		return Record{}, fmt.Errorf("migrate: mark finished: %w", err)
	}
	if err := ensureRowsAffected(res, "mark finished"); err != nil {
		return Record{}, err
	}
	return getRecord(ctx, tx, params.ID)
}

// ErrorParams carries the last error message for a migration.
type ErrorParams struct {
	ID        string
	LastError string
}

// SetError stores the last error message for a migration.
func (s *Store) SetError(ctx context.Context, tx *sql.Tx, params ErrorParams) error {
	res, err := tx.ExecContext(
		ctx,
		`UPDATE schema_migrations
         SET last_error = ?
         WHERE id = ?`,
		params.LastError,
		params.ID,
	)
	if err != nil {
		return fmt.Errorf("migrate: set error: %w", err)
	}
	return ensureRowsAffected(res, "set error")
}

// GetRecord fetches the metadata entry without requiring a transaction.
func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, selectRecord, id))
}

// Records returns every metadata entry ordered by id.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, status, checksum, attempts, started_at, finished_at, last_error
         FROM schema_migrations
         ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func getRecord(ctx context.Context, tx *sql.Tx, id string) (Record, error) {
	return scanRecord(tx.QueryRowContext(ctx, selectRecord, id))
}

func ensureRowsAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("migrate: %s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("migrate: %s touched no rows", op)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	if err := row.Scan(
		&rec.ID,
		&rec.Status,
		&rec.Checksum,
		&rec.Attempts,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.LastError,
	); err != nil {
		return Record{}, err
	}
	return rec, nil
}
