package mlist

import "github.com/the-dev-tools/todolist/pkg/idwrap"

type List struct {
	ID    idwrap.IDWrap
	Title string
}
