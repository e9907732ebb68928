// Package changefeed defines the change events published after list and
// task mutations commit.
package changefeed

import (
	"github.com/the-dev-tools/todolist/pkg/eventstream"
	"github.com/the-dev-tools/todolist/pkg/eventstream/memory"
	"github.com/the-dev-tools/todolist/pkg/model/mlist"
	"github.com/the-dev-tools/todolist/pkg/model/mtask"
)

type Kind string

const (
	KindListInsert      Kind = "list.insert"
	KindListUpdate      Kind = "list.update"
	KindListDelete      Kind = "list.delete"
	KindReconcileNeeded Kind = "list.reconcile_needed"
	KindTaskInsert      Kind = "task.insert"
	KindTaskUpdate      Kind = "task.update"
	KindTaskMove        Kind = "task.move"
	KindTaskDelete      Kind = "task.delete"
	KindListRepair      Kind = "list.repair"
)

// Topic scopes events to one list.
type Topic struct {
	ListID string
}

type ListSnapshot struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type TaskSnapshot struct {
	ID        string `json:"id"`
	ListID    string `json:"listId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	ListOrder int    `json:"listOrder"`
}

type Change struct {
	Kind   Kind          `json:"kind"`
	ListID string        `json:"listId"`
	List   *ListSnapshot `json:"list,omitempty"`
	Task   *TaskSnapshot `json:"task,omitempty"`
}

type Streamer = eventstream.SyncStreamer[Topic, Change]

type Event = eventstream.Event[Topic, Change]

func NewStreamer() Streamer {
	return memory.NewInMemorySyncStreamer[Topic, Change]()
}

func ListChange(kind Kind, list mlist.List) Change {
	id := list.ID.String()
	return Change{Kind: kind, ListID: id, List: &ListSnapshot{ID: id, Title: list.Title}}
}

func TaskChange(kind Kind, task mtask.Task) Change {
	return Change{Kind: kind, ListID: task.ListID.String(), Task: snapshotTask(task)}
}

func ReconcileChange(listID string) Change {
	return Change{Kind: KindReconcileNeeded, ListID: listID}
}

// Publish sends c under the topic of its list. A nil streamer is ignored.
func Publish(s Streamer, changes ...Change) {
	if s == nil {
		return
	}
	for _, c := range changes {
		s.Publish(Topic{ListID: c.ListID}, c)
	}
}

func snapshotTask(t mtask.Task) *TaskSnapshot {
	return &TaskSnapshot{
		ID:        t.ID.String(),
		ListID:    t.ListID.String(),
		Title:     t.Title,
		Completed: t.Completed,
		ListOrder: t.ListOrder,
	}
}
