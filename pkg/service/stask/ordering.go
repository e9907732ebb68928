package stask

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	tododb "github.com/the-dev-tools/todolist/db"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
)

// OrderingService runs each task mutation in its own transaction so the
// sibling shift and the mover's write are committed together or not at all.
type OrderingService struct {
	db     *sql.DB
	logger *slog.Logger
	policy DeletePolicy
}

func NewOrderingService(db *sql.DB, policy DeletePolicy, logger *slog.Logger) *OrderingService {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = DeletePolicyAtomic
	}
	return &OrderingService{
		db:     db,
		logger: logger,
		policy: policy,
	}
}

func (s *OrderingService) Policy() DeletePolicy {
	return s.policy
}

func (s *OrderingService) CreateTask(ctx context.Context, listID idwrap.IDWrap, title string) (*mtask.Task, error) {
	task := &mtask.Task{ListID: listID, Title: title}
	_, err := runInTx(ctx, s.db, func(w *Writer) (struct{}, error) {
		return struct{}{}, w.InsertAtHead(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "task created", "task_id", task.ID.String(), "list_id", listID.String())
	return task, nil
}

func (s *OrderingService) MoveTask(ctx context.Context, id idwrap.IDWrap, destination int) (*mtask.Task, error) {
	task, err := runInTx(ctx, s.db, func(w *Writer) (*mtask.Task, error) {
		task, plan, err := w.MoveTask(ctx, id, destination)
		if err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "task moved",
			"task_id", id.String(),
			"from", plan.Origin,
			"to", plan.Destination,
			"displaced", plan.Distance())
		return task, nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *OrderingService) UpdateTask(ctx context.Context, id idwrap.IDWrap, update mtask.TaskUpdate) (*mtask.Task, error) {
	return runInTx(ctx, s.db, func(w *Writer) (*mtask.Task, error) {
		return w.UpdateTask(ctx, id, update)
	})
}

// DeleteTask removes a task and closes the gap it leaves. Under the soft
// policy a failed shift returns the deleted task together with an error
// wrapping ErrPartialDelete.
func (s *OrderingService) DeleteTask(ctx context.Context, id idwrap.IDWrap) (*mtask.Task, error) {
	if s.policy == DeletePolicySoft {
		return s.deleteSoft(ctx, id)
	}
	return runInTx(ctx, s.db, func(w *Writer) (*mtask.Task, error) {
		task, err := w.DeleteTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := w.CloseGap(ctx, task.ListID, task.ListOrder); err != nil {
			return nil, fmt.Errorf("close gap: %w", err)
		}
		return task, nil
	})
}

func (s *OrderingService) deleteSoft(ctx context.Context, id idwrap.IDWrap) (*mtask.Task, error) {
	task, err := runInTx(ctx, s.db, func(w *Writer) (*mtask.Task, error) {
		return w.DeleteTask(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	_, err = runInTx(ctx, s.db, func(w *Writer) (struct{}, error) {
		return struct{}{}, w.CloseGap(ctx, task.ListID, task.ListOrder)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "task deleted but list order not reconciled",
			"task_id", task.ID.String(),
			"list_id", task.ListID.String(),
			"origin", task.ListOrder,
			"error", err)
		return task, fmt.Errorf("%w: %w", ErrPartialDelete, err)
	}
	return task, nil
}

// RepairList compacts a list back to positions 0..n-1.
func (s *OrderingService) RepairList(ctx context.Context, listID idwrap.IDWrap) ([]mtask.Task, error) {
	var moved int
	tasks, err := runInTx(ctx, s.db, func(w *Writer) ([]mtask.Task, error) {
		tasks, n, err := w.CompactList(ctx, listID)
		moved = n
		return tasks, err
	})
	if err != nil {
		return nil, err
	}
	if moved > 0 {
		s.logger.InfoContext(ctx, "list order repaired", "list_id", listID.String(), "moved", moved)
	}
	return tasks, nil
}

func runInTx[T any](ctx context.Context, db *sql.DB, fn func(w *Writer) (T, error)) (T, error) {
	var zero T
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	defer tododb.TxnRollback(tx)

	out, err := fn(NewWriter(tx))
	if err != nil {
		return zero, err
	}
	if err := tx.Commit(); err != nil {
		return zero, err
	}
	return out, nil
}
