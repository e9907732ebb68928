package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc"
	"github.com/the-dev-tools/todolist/internal/migrate"
)

const MigrationBaseSchemaID = "01KJ3T5W8B6XQ2R4N7M9P0A1C2"

const MigrationBaseSchemaChecksum = "sha256:base-schema-lists-tasks-v1"

func init() {
	if err := migrate.Register(migrate.Migration{
		ID:          MigrationBaseSchemaID,
		Checksum:    MigrationBaseSchemaChecksum,
		Description: "Create lists and tasks tables with the list order index",
		Apply:       applyBaseSchema,
		Validate:    validateBaseSchema,
	}); err != nil {
		panic("failed to register base schema migration: " + err.Error())
	}
}

func applyBaseSchema(ctx context.Context, tx *sql.Tx) error {
	return sqlc.CreateLocalTables(ctx, tx)
}

func validateBaseSchema(ctx context.Context, db *sql.DB) error {
	for _, name := range []string{"lists", "tasks", "tasks_list_order_idx"} {
		var count int
		if err := db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM sqlite_master WHERE name = ?
		`, name).Scan(&count); err != nil {
			return fmt.Errorf("check %s: %w", name, err)
		}
		if count == 0 {
			return fmt.Errorf("%s not found", name)
		}
	}
	return nil
}
