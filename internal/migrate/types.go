package migrate

import (
	"context"
	"database/sql"
)

// ApplyFunc mutates database state within a transaction.
type ApplyFunc func(ctx context.Context, tx *sql.Tx) error

// PrecheckFunc runs prior to opening a transaction for environmental validation.
type PrecheckFunc func(ctx context.Context, db *sql.DB) error

// ValidateFunc executes after commit to verify postconditions.
type ValidateFunc func(ctx context.Context, db *sql.DB) error

// Migration describes a registered migration and its hooks.
type Migration struct {
	ID          string
	Checksum    string
	Description string
	Apply       ApplyFunc
	Precheck    PrecheckFunc
	Validate    ValidateFunc
}
