package mtask

import "github.com/the-dev-tools/todolist/pkg/idwrap"

type Task struct {
	ID        idwrap.IDWrap
	ListID    idwrap.IDWrap
	Title     string
	Completed bool
	// ListOrder is the zero-based rank of the task inside its list.
	ListOrder int
}

// TaskUpdate carries the user-editable fields of a task. A nil field is left
// untouched. Ordering is intentionally absent: positions only change through
// the reposition operation.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Completed == nil
}

// Apply returns t with the set fields of u copied over.
func (u TaskUpdate) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	return t
}
