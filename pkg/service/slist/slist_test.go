package slist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/logger/mocklogger"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
	"github.com/the-dev-tools/todolist/pkg/testutil"
)

func TestListLifecycle(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateTestDB(ctx, t)
	reader := NewReader(base.DB, mocklogger.NewMockLogger())
	writer := NewWriter(base.DB)

	list := &mlist.List{Title: "groceries"}
	require.NoError(t, writer.CreateList(ctx, list))
	require.False(t, list.ID.IsZero())

	got, err := reader.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	updated, err := writer.UpdateList(ctx, list.ID, "errands")
	require.NoError(t, err)
	assert.Equal(t, "errands", updated.Title)

	lists, err := reader.ListLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "errands", lists[0].Title)

	require.NoError(t, writer.DeleteList(ctx, list.ID))
	_, err = reader.GetList(ctx, list.ID)
	require.ErrorIs(t, err, ErrNoListFound)

	lists, err = reader.ListLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestListErrors(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateTestDB(ctx, t)
	writer := NewWriter(base.DB)

	require.ErrorIs(t, writer.CreateList(ctx, &mlist.List{Title: " "}), ErrEmptyTitle)

	_, err := writer.UpdateList(ctx, idwrap.NewNow(), "x")
	require.ErrorIs(t, err, ErrNoListFound)

	existing, _ := base.SeedList("kept")
	_, err = writer.UpdateList(ctx, existing.ID, "")
	require.ErrorIs(t, err, ErrEmptyTitle)

	require.ErrorIs(t, writer.DeleteList(ctx, idwrap.NewNow()), ErrNoListFound)
}
