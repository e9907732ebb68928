package stask

import (
	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
	"github.com/the-dev-tools/todolist/pkg/movable"
)

func ConvertToDBTask(task mtask.Task) gen.Task {
	return gen.Task{
		ID:        task.ID,
		ListID:    task.ListID,
		Title:     task.Title,
		Completed: task.Completed,
		ListOrder: int64(task.ListOrder),
	}
}

func ConvertToModelTask(task gen.Task) *mtask.Task {
	return &mtask.Task{
		ID:        task.ID,
		ListID:    task.ListID,
		Title:     task.Title,
		Completed: task.Completed,
		ListOrder: int(task.ListOrder),
	}
}

func ConvertToMovableItems(tasks []mtask.Task) []movable.Item {
	items := make([]movable.Item, len(tasks))
	for i, t := range tasks {
		items[i] = movable.Item{ID: t.ID, ListID: t.ListID, Position: t.ListOrder}
	}
	return items
}
