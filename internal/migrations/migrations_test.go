package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/db/pkg/sqlitemem"
	"github.com/the-dev-tools/todolist/internal/migrate"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
)

func TestMigrationsRegister(t *testing.T) {
	migrations := migrate.List()
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations registered, got %d", len(migrations))
	}
	if migrations[0].ID != MigrationBaseSchemaID {
		t.Errorf("expected base schema first, got %s", migrations[0].ID)
	}
}

func TestMigrationsApplyOnEmptyDatabase(t *testing.T) {
	ctx := context.Background()

	// bare database: no tables until the base schema migration runs
	db, err := sql.Open("sqlite", sqlitemem.DSN(ulid.Make().String()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := Run(ctx, db, Config{DatabasePath: ":memory:"}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE status = 'finished'").Scan(&count); err != nil {
		t.Fatalf("failed to query schema_migrations: %v", err)
	}
	if count != len(migrate.List()) {
		t.Errorf("expected %d finished migrations, got %d", len(migrate.List()), count)
	}

	var name string
	if err := db.QueryRowContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='tasks'
	`).Scan(&name); err != nil {
		t.Fatalf("tasks table not found: %v", err)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(cleanup)

	for i := 0; i < 2; i++ {
		if err := Run(ctx, db, Config{DatabasePath: ":memory:"}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestBackfillCompactsPositions(t *testing.T) {
	ctx := context.Background()

	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(cleanup)

	q := gen.New(db)
	listID := idwrap.NewNow()
	if err := q.CreateList(ctx, gen.CreateListParams{ID: listID, Title: "legacy"}); err != nil {
		t.Fatalf("create list: %v", err)
	}
	// gaps and a duplicate, as left behind by a failed compensating shift
	for i, pos := range []int64{0, 2, 2, 9} {
		if err := q.CreateTask(ctx, gen.CreateTaskParams{
			ID:        idwrap.NewNow(),
			ListID:    listID,
			Title:     string(rune('A' + i)),
			ListOrder: pos,
		}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := applyBackfillListOrder(ctx, tx); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := validateBackfillListOrder(ctx, db); err != nil {
		t.Fatalf("validate: %v", err)
	}

	rows, err := q.GetTasksByListIDOrdered(ctx, listID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"A", "B", "C", "D"}
	for i, r := range rows {
		if r.Title != want[i] || r.ListOrder != int64(i) {
			t.Errorf("position %d: got %s@%d", i, r.Title, r.ListOrder)
		}
	}
}
