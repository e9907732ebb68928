package stask

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/testutil"
)

func TestReader(t *testing.T) {
	ctx := context.Background()
	base := testutil.CreateTestDB(ctx, t)
	list, tasks := base.SeedList("groceries", "buy milk", "call plumber", "buy bread", "Buy eggs")
	r := NewReader(base.DB, nil)

	got, err := r.GetTask(ctx, tasks[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "buy bread", got.Title)
	assert.Equal(t, 2, got.ListOrder)
	assert.Equal(t, list.ID, got.ListID)

	_, err = r.GetTask(ctx, idwrap.NewNow())
	require.ErrorIs(t, err, ErrNoTaskFound)

	all, err := r.ListTasks(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, task := range all {
		assert.Equal(t, i, task.ListOrder)
	}

	empty, err := r.ListTasks(ctx, idwrap.NewNow())
	require.NoError(t, err)
	assert.Empty(t, empty)

	matches, err := r.SearchTasks(ctx, list.ID, "buy")
	require.NoError(t, err)
	require.Len(t, matches, 3)
	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = m.Task.Title
		if i > 0 {
			assert.LessOrEqual(t, matches[i-1].Distance, m.Distance)
		}
	}
	assert.ElementsMatch(t, []string{"buy milk", "buy bread", "Buy eggs"}, titles)
}
