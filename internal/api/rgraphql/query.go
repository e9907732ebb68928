package rgraphql

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
)

func (s *TodoRPC) Lists(ctx context.Context) ([]*listResolver, error) {
	lists, err := s.listReader.ListLists(ctx)
	if err != nil {
		return nil, s.fail(ctx, "lists", err)
	}
	return s.newLists(lists), nil
}

func (s *TodoRPC) List(ctx context.Context, args struct{ ID graphql.ID }) (*listResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "list", err)
	}
	list, err := s.listReader.GetList(ctx, id)
	if err != nil {
		return nil, s.listOrNotFound(ctx, "list", err, id)
	}
	return s.newList(*list), nil
}

func (s *TodoRPC) Task(ctx context.Context, args struct{ ID graphql.ID }) (*taskResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, s.fail(ctx, "task", err)
	}
	task, err := s.taskReader.GetTask(ctx, id)
	if err != nil {
		return nil, s.taskOrNotFound(ctx, "task", err, id)
	}
	return s.newTask(*task), nil
}

func (s *TodoRPC) SearchTasks(ctx context.Context, args struct {
	ListID graphql.ID
	Query  string
}) ([]*matchResolver, error) {
	listID, err := parseID(args.ListID)
	if err != nil {
		return nil, s.fail(ctx, "searchTasks", err)
	}
	if _, err := s.listReader.GetList(ctx, listID); err != nil {
		return nil, s.listOrNotFound(ctx, "searchTasks", err, listID)
	}
	matches, err := s.taskReader.SearchTasks(ctx, listID, args.Query)
	if err != nil {
		return nil, s.fail(ctx, "searchTasks", err)
	}
	return s.newMatches(matches), nil
}

// Ping echoes message back. It is exposed as both a query and a mutation.
func (s *TodoRPC) Ping(args struct{ Message string }) string {
	return "PING:" + args.Message
}
