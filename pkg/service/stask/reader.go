package stask

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/fuzzyfinder"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
)

type Reader struct {
	queries *gen.Queries
	logger  *slog.Logger
}

func NewReader(db *sql.DB, logger *slog.Logger) *Reader {
	return NewReaderFromQueries(gen.New(db), logger)
}

func NewReaderFromQueries(queries *gen.Queries, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		queries: queries,
		logger:  logger,
	}
}

func (r *Reader) GetTask(ctx context.Context, id idwrap.IDWrap) (*mtask.Task, error) {
	task, err := r.queries.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.DebugContext(ctx, "task not found", "task_id", id.String())
			return nil, ErrNoTaskFound
		}
		return nil, err
	}
	return ConvertToModelTask(task), nil
}

// ListTasks returns the tasks of a list ordered by ascending list order.
func (r *Reader) ListTasks(ctx context.Context, listID idwrap.IDWrap) ([]mtask.Task, error) {
	return listTasks(ctx, r.queries, listID)
}

// TaskMatch is a search hit; lower Distance is a closer match.
type TaskMatch struct {
	Task     mtask.Task
	Distance int
}

// SearchTasks fuzzy matches query against the titles of a list's tasks and
// returns the hits best first.
func (r *Reader) SearchTasks(ctx context.Context, listID idwrap.IDWrap, query string) ([]TaskMatch, error) {
	tasks, err := r.ListTasks(ctx, listID)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}

	ranks := fuzzyfinder.RankFindFold(titles, query)
	matches := make([]TaskMatch, len(ranks))
	for i, rank := range ranks {
		matches[i] = TaskMatch{Task: tasks[rank.OriginalIndex], Distance: rank.Distance}
	}
	return matches, nil
}

func listTasks(ctx context.Context, queries *gen.Queries, listID idwrap.IDWrap) ([]mtask.Task, error) {
	rows, err := queries.GetTasksByListIDOrdered(ctx, listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []mtask.Task{}, nil
		}
		return nil, err
	}

	tasks := make([]mtask.Task, len(rows))
	for i, row := range rows {
		tasks[i] = *ConvertToModelTask(row)
	}
	return tasks, nil
}
