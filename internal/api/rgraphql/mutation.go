package rgraphql

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	tododb "github.com/the-dev-tools/todolist/db"
	"github.com/the-dev-tools/todolist/pkg/changefeed"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
	"github.com/the-dev-tools/todolist/pkg/service/slist"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
)

type CreateListInput struct {
	Title string
}

type UpdateListInput struct {
	Title string
}

type CreateTaskInput struct {
	Title string
}

type UpdateTaskInput struct {
	Title     *string
	Completed *bool
}

type UpdateTaskPositionInput struct {
	ListOrder int32
}

func (s *TodoRPC) CreateList(ctx context.Context, args struct{ Input CreateListInput }) (*listResolver, error) {
	list := mlist.List{Title: args.Input.Title}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.fail(ctx, "createList", err)
	}
	defer tododb.TxnRollback(tx)

	if err := slist.NewWriter(tx).CreateList(ctx, &list); err != nil {
		return nil, s.fail(ctx, "createList", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.fail(ctx, "createList", err)
	}

	changefeed.Publish(s.streamer, changefeed.ListChange(changefeed.KindListInsert, list))
	return s.newList(list), nil
}

func (s *TodoRPC) UpdateList(ctx context.Context, args struct {
	ID    graphql.ID
	Input UpdateListInput
}) (*listResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "updateList", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.fail(ctx, "updateList", err)
	}
	defer tododb.TxnRollback(tx)

	list, err := slist.NewWriter(tx).UpdateList(ctx, id, args.Input.Title)
	if err != nil {
		return nil, s.listOrNotFound(ctx, "updateList", err, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.fail(ctx, "updateList", err)
	}

	changefeed.Publish(s.streamer, changefeed.ListChange(changefeed.KindListUpdate, *list))
	return s.newList(*list), nil
}

func (s *TodoRPC) DeleteList(ctx context.Context, args struct{ ID graphql.ID }) (*mutationResult, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "deleteList", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.fail(ctx, "deleteList", err)
	}
	defer tododb.TxnRollback(tx)

	if err := slist.NewWriter(tx).DeleteList(ctx, id); err != nil {
		return nil, s.listOrNotFound(ctx, "deleteList", err, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, s.fail(ctx, "deleteList", err)
	}

	changefeed.Publish(s.streamer, changefeed.ListChange(changefeed.KindListDelete, mlist.List{ID: id}))
	return &mutationResult{success: true}, nil
}

func (s *TodoRPC) CreateTask(ctx context.Context, args struct {
	ListID graphql.ID
	Input  CreateTaskInput
}) (*taskResolver, error) {
	listID, err := parseID(args.ListID)
	if err != nil {
		return nil, s.fail(ctx, "createTask", err)
	}

	task, err := s.ordering.CreateTask(ctx, listID, args.Input.Title)
	if err != nil {
		return nil, s.listOrNotFound(ctx, "createTask", err, listID)
	}

	changefeed.Publish(s.streamer, changefeed.TaskChange(changefeed.KindTaskInsert, *task))
	return s.newTask(*task), nil
}

func (s *TodoRPC) UpdateTask(ctx context.Context, args struct {
	ID    graphql.ID
	Input UpdateTaskInput
}) (*taskResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "updateTask", err)
	}

	update := mtask.TaskUpdate{Title: args.Input.Title, Completed: args.Input.Completed}
	task, err := s.ordering.UpdateTask(ctx, id, update)
	if err != nil {
		return nil, s.taskOrNotFound(ctx, "updateTask", err, id)
	}

	if !update.IsEmpty() {
		changefeed.Publish(s.streamer, changefeed.TaskChange(changefeed.KindTaskUpdate, *task))
	}
	return s.newTask(*task), nil
}

func (s *TodoRPC) UpdateTaskPosition(ctx context.Context, args struct {
	ID    graphql.ID
	Input UpdateTaskPositionInput
}) (*taskResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "updateTaskPosition", err)
	}

	task, err := s.ordering.MoveTask(ctx, id, int(args.Input.ListOrder))
	if err != nil {
		return nil, s.taskOrNotFound(ctx, "updateTaskPosition", err, id)
	}

	changefeed.Publish(s.streamer, changefeed.TaskChange(changefeed.KindTaskMove, *task))
	return s.newTask(*task), nil
}

// DeleteTask reports success=false when the row was removed but the list
// could not be compacted afterwards.
func (s *TodoRPC) DeleteTask(ctx context.Context, args struct{ ID graphql.ID }) (*mutationResult, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "deleteTask", err)
	}

	task, err := s.ordering.DeleteTask(ctx, id)
	if errors.Is(err, stask.ErrPartialDelete) {
		changefeed.Publish(s.streamer,
			changefeed.TaskChange(changefeed.KindTaskDelete, *task),
			changefeed.ReconcileChange(task.ListID.String()))
		return &mutationResult{success: false}, nil
	}
	if err != nil {
		return nil, s.taskOrNotFound(ctx, "deleteTask", err, id)
	}

	changefeed.Publish(s.streamer, changefeed.TaskChange(changefeed.KindTaskDelete, *task))
	return &mutationResult{success: true}, nil
}

func (s *TodoRPC) RepairListOrder(ctx context.Context, args struct{ ListID graphql.ID }) (*listResolver, error) {
	listID, err := parseID(args.ListID)
	if err != nil {
		return nil, s.fail(ctx, "repairListOrder", err)
	}

	if _, err := s.ordering.RepairList(ctx, listID); err != nil {
		return nil, s.listOrNotFound(ctx, "repairListOrder", err, listID)
	}
	list, err := s.listReader.GetList(ctx, listID)
	if err != nil {
		return nil, s.listOrNotFound(ctx, "repairListOrder", err, listID)
	}

	changefeed.Publish(s.streamer, changefeed.Change{Kind: changefeed.KindListRepair, ListID: list.ID.String()})
	return s.newList(*list), nil
}
