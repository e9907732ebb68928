package stask

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
	"github.com/the-dev-tools/todolist/pkg/movable"
)

// Writer issues the ordering statements. It is meant to be bound to a
// transaction: every method leaves the list dense only once all of its
// statements have been applied together.
type Writer struct {
	queries *gen.Queries
}

func NewWriter(tx gen.DBTX) *Writer {
	return &Writer{
		queries: gen.New(tx),
	}
}

// InsertAtHead creates task at position 0 of its list, moving every existing
// task of that list down by one.
func (w *Writer) InsertAtHead(ctx context.Context, task *mtask.Task) error {
	if err := validateTitle(task.Title); err != nil {
		return err
	}
	if _, err := w.queries.GetList(ctx, task.ListID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoListFound
		}
		return err
	}

	count, err := w.queries.CountTasksByListID(ctx, task.ListID)
	if err != nil {
		return err
	}
	plan := movable.PlanInsertAtHead(int(count))
	if _, err := w.applyShift(ctx, task.ListID, plan.Shift); err != nil {
		return fmt.Errorf("shift siblings: %w", err)
	}

	if task.ID.IsZero() {
		task.ID = idwrap.NewNow()
	}
	task.Completed = false
	task.ListOrder = plan.Position
	return w.queries.CreateTask(ctx, gen.CreateTaskParams(ConvertToDBTask(*task)))
}

// MoveTask repositions a task to destination inside its list. Only the
// siblings between the two positions are shifted.
func (w *Writer) MoveTask(ctx context.Context, id idwrap.IDWrap, destination int) (*mtask.Task, movable.MovePlan, error) {
	row, err := w.queries.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movable.MovePlan{}, ErrNoTaskFound
		}
		return nil, movable.MovePlan{}, err
	}

	count, err := w.queries.CountTasksByListID(ctx, row.ListID)
	if err != nil {
		return nil, movable.MovePlan{}, err
	}
	plan, err := movable.PlanMove(int(row.ListOrder), destination, int(count))
	if err != nil {
		return nil, movable.MovePlan{}, err
	}

	if _, err := w.applyShift(ctx, row.ListID, plan.Shift); err != nil {
		return nil, plan, fmt.Errorf("shift siblings: %w", err)
	}
	if _, err := w.queries.UpdateTaskListOrder(ctx, gen.UpdateTaskListOrderParams{
		ListOrder: int64(plan.Destination),
		ID:        id,
	}); err != nil {
		return nil, plan, fmt.Errorf("write position: %w", err)
	}

	task := ConvertToModelTask(row)
	task.ListOrder = plan.Destination
	return task, plan, nil
}

// DeleteTask removes the task row and returns it as it was, including the
// position it vacated. The gap is not closed; see CloseGap.
func (w *Writer) DeleteTask(ctx context.Context, id idwrap.IDWrap) (*mtask.Task, error) {
	row, err := w.queries.DeleteTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoTaskFound
		}
		return nil, err
	}
	return ConvertToModelTask(row), nil
}

// CloseGap moves every task of listID after origin up by one.
func (w *Writer) CloseGap(ctx context.Context, listID idwrap.IDWrap, origin int) error {
	shift, err := movable.PlanRemove(origin)
	if err != nil {
		return err
	}
	_, err = w.applyShift(ctx, listID, shift)
	return err
}

// UpdateTask writes the set fields of update. The position is never touched.
func (w *Writer) UpdateTask(ctx context.Context, id idwrap.IDWrap, update mtask.TaskUpdate) (*mtask.Task, error) {
	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			return nil, err
		}
	}

	if !update.IsEmpty() {
		params := gen.UpdateTaskFieldsParams{ID: id}
		if update.Title != nil {
			params.Title = sql.NullString{String: *update.Title, Valid: true}
		}
		if update.Completed != nil {
			params.Completed = sql.NullBool{Bool: *update.Completed, Valid: true}
		}
		affected, err := w.queries.UpdateTaskFields(ctx, params)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrNoTaskFound
		}
	}

	row, err := w.queries.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoTaskFound
		}
		return nil, err
	}
	return ConvertToModelTask(row), nil
}

// CompactList rewrites the positions of a list's tasks to 0..n-1, keeping
// their relative order, and returns the number of tasks that moved.
func (w *Writer) CompactList(ctx context.Context, listID idwrap.IDWrap) ([]mtask.Task, int, error) {
	if _, err := w.queries.GetList(ctx, listID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNoListFound
		}
		return nil, 0, err
	}

	tasks, err := listTasks(ctx, w.queries, listID)
	if err != nil {
		return nil, 0, err
	}
	updates := movable.Compact(ConvertToMovableItems(tasks))
	for _, u := range updates {
		if _, err := w.queries.UpdateTaskListOrder(ctx, gen.UpdateTaskListOrderParams{
			ListOrder: int64(u.Position),
			ID:        u.ItemID,
		}); err != nil {
			return nil, 0, err
		}
	}
	if len(updates) == 0 {
		return tasks, 0, nil
	}

	tasks, err = listTasks(ctx, w.queries, listID)
	if err != nil {
		return nil, 0, err
	}
	if err := movable.CheckListIntegrity(listID, ConvertToMovableItems(tasks)); err != nil {
		return nil, 0, err
	}
	return tasks, len(updates), nil
}

func (w *Writer) applyShift(ctx context.Context, listID idwrap.IDWrap, s movable.Shift) (int64, error) {
	switch {
	case s.Empty():
		return 0, nil
	case s.High < 0 && s.Low == 0:
		return w.queries.ShiftAllTaskOrders(ctx, gen.ShiftAllTaskOrdersParams{
			Delta:  int64(s.Delta),
			ListID: listID,
		})
	case s.High < 0 && s.Delta == -1:
		return w.queries.ShiftTaskOrdersAfter(ctx, gen.ShiftTaskOrdersAfterParams{
			ListID:    listID,
			ListOrder: int64(s.Low - 1),
		})
	}

	high := int64(s.High)
	if s.High < 0 {
		high = math.MaxInt64
	}
	return w.queries.ShiftTaskOrdersInRange(ctx, gen.ShiftTaskOrdersInRangeParams{
		Delta:  int64(s.Delta),
		ListID: listID,
		Low:    int64(s.Low),
		High:   high,
	})
}
