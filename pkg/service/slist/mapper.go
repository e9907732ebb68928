package slist

import (
	"github.com/the-dev-tools/todolist/db/pkg/sqlc/gen"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
)

func ConvertToDBList(list mlist.List) gen.List {
	return gen.List{
		ID:    list.ID,
		Title: list.Title,
	}
}

func ConvertToModelList(list gen.List) *mlist.List {
	return &mlist.List{
		ID:    list.ID,
		Title: list.Title,
	}
}
