package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/internal/migrate"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/movable"
)

const MigrationBackfillListOrderID = "01KJ3T6A2D5F7H9K1M3N5P7Q9R"

const MigrationBackfillListOrderChecksum = "sha256:backfill-dense-list-order-v1"

func init() {
	if err := migrate.Register(migrate.Migration{
		ID:          MigrationBackfillListOrderID,
		Checksum:    MigrationBackfillListOrderChecksum,
		Description: "Rewrite every list's task positions to 0..n-1",
		Apply:       applyBackfillListOrder,
		Validate:    validateBackfillListOrder,
	}); err != nil {
		panic("failed to register list order backfill migration: " + err.Error())
	}
}

func applyBackfillListOrder(ctx context.Context, tx *sql.Tx) error {
	q := gen.New(tx)
	lists, err := q.GetLists(ctx)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}

	for _, list := range lists {
		items, err := listItems(ctx, q, list.ID)
		if err != nil {
			return err
		}
		for _, u := range movable.Compact(items) {
			if _, err := q.UpdateTaskListOrder(ctx, gen.UpdateTaskListOrderParams{
				ListOrder: int64(u.Position),
				ID:        u.ItemID,
			}); err != nil {
				return fmt.Errorf("rewrite position of %s: %w", u.ItemID, err)
			}
		}
	}
	return nil
}

func validateBackfillListOrder(ctx context.Context, db *sql.DB) error {
	q := gen.New(db)
	lists, err := q.GetLists(ctx)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}
	for _, list := range lists {
		items, err := listItems(ctx, q, list.ID)
		if err != nil {
			return err
		}
		if err := movable.CheckListIntegrity(list.ID, items); err != nil {
			return fmt.Errorf("list %s: %w", list.ID, err)
		}
	}
	return nil
}

func listItems(ctx context.Context, q *gen.Queries, listID idwrap.IDWrap) ([]movable.Item, error) {
	rows, err := q.GetTasksByListIDOrdered(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load tasks of %s: %w", listID, err)
	}
	items := make([]movable.Item, len(rows))
	for i, r := range rows {
		items[i] = movable.Item{ID: r.ID, ListID: r.ListID, Position: int(r.ListOrder)}
	}
	return items, nil
}
