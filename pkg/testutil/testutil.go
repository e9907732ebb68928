package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/db/pkg/sqlitemem"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
	"github.com/the-dev-tools/todolist/pkg/movable"
)

type TestDB struct {
	DB      *sql.DB
	Queries *gen.Queries
	t       testing.TB
	ctx     context.Context
}

// CreateTestDB opens a fresh in-memory database that is closed when the
// test ends.
func CreateTestDB(ctx context.Context, t testing.TB) *TestDB {
	t.Helper()
	db, cleanup, err := sqlitemem.NewSQLiteMem(ctx)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return &TestDB{DB: db, Queries: gen.New(db), t: t, ctx: ctx}
}

// SeedList creates a list whose tasks sit at positions 0..n-1 in the order
// given.
func (d *TestDB) SeedList(title string, taskTitles ...string) (mlist.List, []mtask.Task) {
	d.t.Helper()
	list := mlist.List{ID: idwrap.NewNow(), Title: title}
	require.NoError(d.t, d.Queries.CreateList(d.ctx, gen.CreateListParams{ID: list.ID, Title: list.Title}))

	tasks := make([]mtask.Task, len(taskTitles))
	for i, tt := range taskTitles {
		tasks[i] = mtask.Task{ID: idwrap.NewNow(), ListID: list.ID, Title: tt, ListOrder: i}
		require.NoError(d.t, d.Queries.CreateTask(d.ctx, gen.CreateTaskParams{
			ID:        tasks[i].ID,
			ListID:    list.ID,
			Title:     tt,
			ListOrder: int64(i),
		}))
	}
	return list, tasks
}

// SetPosition writes a raw position, bypassing the ordering engine.
func (d *TestDB) SetPosition(taskID idwrap.IDWrap, position int) {
	d.t.Helper()
	_, err := d.Queries.UpdateTaskListOrder(d.ctx, gen.UpdateTaskListOrderParams{ListOrder: int64(position), ID: taskID})
	require.NoError(d.t, err)
}

// Tasks returns the stored tasks of a list ordered by position.
func (d *TestDB) Tasks(listID idwrap.IDWrap) []gen.Task {
	d.t.Helper()
	rows, err := d.Queries.GetTasksByListIDOrdered(d.ctx, listID)
	require.NoError(d.t, err)
	return rows
}

// OrderedTitles returns the task titles of a list by ascending position.
func (d *TestDB) OrderedTitles(listID idwrap.IDWrap) []string {
	d.t.Helper()
	rows := d.Tasks(listID)
	titles := make([]string, len(rows))
	for i, r := range rows {
		titles[i] = r.Title
	}
	return titles
}

// Positions maps task title to stored position.
func (d *TestDB) Positions(listID idwrap.IDWrap) map[string]int {
	d.t.Helper()
	out := map[string]int{}
	for _, r := range d.Tasks(listID) {
		out[r.Title] = int(r.ListOrder)
	}
	return out
}

// AssertDense fails the test unless the list's positions are 0..n-1.
func (d *TestDB) AssertDense(listID idwrap.IDWrap) {
	d.t.Helper()
	rows := d.Tasks(listID)
	items := make([]movable.Item, len(rows))
	for i, r := range rows {
		items[i] = movable.Item{ID: r.ID, ListID: r.ListID, Position: int(r.ListOrder)}
	}
	require.NoError(d.t, movable.CheckListIntegrity(listID, items))
}
