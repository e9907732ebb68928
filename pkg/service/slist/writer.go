package slist

import (
	"context"
	"fmt"

	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
)

type Writer struct {
	queries *gen.Queries
}

func NewWriter(tx gen.DBTX) *Writer {
	return &Writer{
		queries: gen.New(tx),
	}
}

// CreateList inserts list, assigning a fresh id when none is set.
func (w *Writer) CreateList(ctx context.Context, list *mlist.List) error {
	if err := validateTitle(list.Title); err != nil {
		return err
	}
	if list.ID.IsZero() {
		list.ID = idwrap.NewNow()
	}
	return w.queries.CreateList(ctx, gen.CreateListParams(ConvertToDBList(*list)))
}

func (w *Writer) UpdateList(ctx context.Context, id idwrap.IDWrap, title string) (*mlist.List, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	affected, err := w.queries.UpdateListTitle(ctx, gen.UpdateListTitleParams{
		Title: title,
		ID:    id,
	})
	if err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}
	if affected == 0 {
		return nil, ErrNoListFound
	}
	return &mlist.List{ID: id, Title: title}, nil
}

// DeleteList removes the list. Its tasks go with it through the foreign key
// cascade, inside the same statement.
func (w *Writer) DeleteList(ctx context.Context, id idwrap.IDWrap) error {
	affected, err := w.queries.DeleteList(ctx, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if affected == 0 {
		return ErrNoListFound
	}
	return nil
}
