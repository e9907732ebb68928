package rgraphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/the-dev-tools/todolist/pkg/errmap"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
)

type listResolver struct {
	rpc  *TodoRPC
	list mlist.List
}

func (r *listResolver) ID() graphql.ID { return graphql.ID(r.list.ID.String()) }

func (r *listResolver) Title() string { return r.list.Title }

func (r *listResolver) Tasks(ctx context.Context) ([]*taskResolver, error) {
	tasks, err := r.rpc.taskReader.ListTasks(ctx, r.list.ID)
	if err != nil {
		return nil, r.rpc.fail(ctx, "List.tasks", err)
	}
	return r.rpc.newTasks(tasks), nil
}

type taskResolver struct {
	rpc  *TodoRPC
	task mtask.Task
}

func (r *taskResolver) ID() graphql.ID { return graphql.ID(r.task.ID.String()) }

func (r *taskResolver) ListID() graphql.ID { return graphql.ID(r.task.ListID.String()) }

func (r *taskResolver) Title() string { return r.task.Title }

func (r *taskResolver) Completed() bool { return r.task.Completed }

func (r *taskResolver) ListOrder() int32 { return int32(r.task.ListOrder) }

func (r *taskResolver) List(ctx context.Context) (*listResolver, error) {
	list, err := r.rpc.listReader.GetList(ctx, r.task.ListID)
	if err != nil {
		return nil, r.rpc.fail(ctx, "Task.list", err)
	}
	return r.rpc.newList(*list), nil
}

type matchResolver struct {
	task     *taskResolver
	distance int
}

func (r *matchResolver) Task() *taskResolver { return r.task }

func (r *matchResolver) Distance() int32 { return int32(r.distance) }

type mutationResult struct {
	success bool
}

func (r *mutationResult) Success() bool { return r.success }

func (s *TodoRPC) newList(list mlist.List) *listResolver {
	return &listResolver{rpc: s, list: list}
}

func (s *TodoRPC) newLists(lists []mlist.List) []*listResolver {
	out := make([]*listResolver, len(lists))
	for i, l := range lists {
		out[i] = s.newList(l)
	}
	return out
}

func (s *TodoRPC) newTask(task mtask.Task) *taskResolver {
	return &taskResolver{rpc: s, task: task}
}

func (s *TodoRPC) newTasks(tasks []mtask.Task) []*taskResolver {
	out := make([]*taskResolver, len(tasks))
	for i, t := range tasks {
		out[i] = s.newTask(t)
	}
	return out
}

func (s *TodoRPC) newMatches(matches []stask.TaskMatch) []*matchResolver {
	out := make([]*matchResolver, len(matches))
	for i, m := range matches {
		out[i] = &matchResolver{task: s.newTask(m.Task), distance: m.Distance}
	}
	return out
}

// listOrNotFound turns a missing list into a named not_found error.
func (s *TodoRPC) listOrNotFound(ctx context.Context, op string, err error, id idwrap.IDWrap) error {
	if errmap.CodeOf(err) == errmap.CodeNotFound {
		return errmap.NotFound("list", id)
	}
	return s.fail(ctx, op, err)
}

// taskOrNotFound turns a missing task into a named not_found error.
func (s *TodoRPC) taskOrNotFound(ctx context.Context, op string, err error, id idwrap.IDWrap) error {
	if errmap.CodeOf(err) == errmap.CodeNotFound {
		return errmap.NotFound("task", id)
	}
	return s.fail(ctx, op, err)
}
