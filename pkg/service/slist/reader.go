package slist

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
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

func (r *Reader) GetList(ctx context.Context, id idwrap.IDWrap) (*mlist.List, error) {
	list, err := r.queries.GetList(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.DebugContext(ctx, "list not found", "list_id", id.String())
			return nil, ErrNoListFound
		}
		return nil, err
	}
	return ConvertToModelList(list), nil
}

func (r *Reader) ListLists(ctx context.Context) ([]mlist.List, error) {
	lists, err := r.queries.GetLists(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []mlist.List{}, nil
		}
		return nil, err
	}

	result := make([]mlist.List, len(lists))
	for i, list := range lists {
		result[i] = *ConvertToModelList(list)
	}
	return result, nil
}
