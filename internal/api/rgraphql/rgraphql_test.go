package rgraphql

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/pkg/changefeed"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/logger/mocklogger"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
	"github.com/the-dev-tools/todolist/pkg/testutil"
)

type gqlError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (r gqlResponse) code(t *testing.T) string {
	t.Helper()
	require.Len(t, r.Errors, 1, "expected exactly one error")
	code, _ := r.Errors[0].Extensions["code"].(string)
	return code
}

type fixture struct {
	db       *testutil.TestDB
	handler  http.Handler
	streamer changefeed.Streamer
}

func newFixture(t *testing.T, policy stask.DeletePolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.CreateTestDB(ctx, t)
	streamer := changefeed.NewStreamer()
	t.Cleanup(streamer.Shutdown)

	return &fixture{
		db:       db,
		handler:  newHandler(t, db.DB, policy, streamer, 10),
		streamer: streamer,
	}
}

func newHandler(t *testing.T, db *sql.DB, policy stask.DeletePolicy, streamer changefeed.Streamer, maxDepth int) http.Handler {
	t.Helper()
	logger := mocklogger.NewMockLogger()
	rpc := New(TodoRPCDeps{
		DB:       db,
		Ordering: stask.NewOrderingService(db, policy, logger),
		Streamer: streamer,
		Logger:   logger,
	})
	svc, err := CreateService(rpc, maxDepth)
	require.NoError(t, err)
	assert.Equal(t, Path, svc.Path)
	return svc.Handler
}

func do(t *testing.T, h http.Handler, query string, vars map[string]any) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, resp gqlResponse) T {
	t.Helper()
	require.Empty(t, resp.Errors)
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

type taskJSON struct {
	ID        string `json:"id"`
	ListID    string `json:"listId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	ListOrder int    `json:"listOrder"`
}

type listJSON struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Tasks []taskJSON `json:"tasks"`
}

const listQuery = `query($id: ID!) { list(id: $id) { id title tasks { id title completed listOrder } } }`

func (f *fixture) titles(t *testing.T, listID string) []string {
	t.Helper()
	out := decode[struct{ List listJSON }](t, do(t, f.handler, listQuery, map[string]any{"id": listID}))
	titles := make([]string, len(out.List.Tasks))
	for i, task := range out.List.Tasks {
		require.Equal(t, i, task.ListOrder)
		titles[i] = task.Title
	}
	return titles
}

func TestCreateTasksInsertAtHead(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)

	created := decode[struct{ CreateList listJSON }](t, do(t, f.handler,
		`mutation { createList(input: {title: "groceries"}) { id title tasks { id } } }`, nil))
	assert.Equal(t, "groceries", created.CreateList.Title)
	assert.Empty(t, created.CreateList.Tasks)
	listID := created.CreateList.ID

	for _, title := range []string{"O", "N"} {
		out := decode[struct{ CreateTask taskJSON }](t, do(t, f.handler,
			`mutation($listId: ID!, $title: String!) {
				createTask(listId: $listId, input: {title: $title}) { id listId title completed listOrder }
			}`,
			map[string]any{"listId": listID, "title": title}))
		assert.Equal(t, title, out.CreateTask.Title)
		assert.Equal(t, listID, out.CreateTask.ListID)
		assert.Equal(t, 0, out.CreateTask.ListOrder)
		assert.False(t, out.CreateTask.Completed)
	}

	assert.Equal(t, []string{"N", "O"}, f.titles(t, listID))

	all := decode[struct{ Lists []listJSON }](t, do(t, f.handler, `{ lists { id title tasks { title listOrder } } }`, nil))
	require.Len(t, all.Lists, 1)
	assert.Len(t, all.Lists[0].Tasks, 2)
}

func TestUpdateTaskPosition(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, tasks := f.db.SeedList("letters", "A", "B", "C", "D", "E", "F")
	const move = `mutation($id: ID!, $to: Int!) { updateTaskPosition(id: $id, input: {listOrder: $to}) { title listOrder } }`

	out := decode[struct{ UpdateTaskPosition taskJSON }](t, do(t, f.handler, move,
		map[string]any{"id": tasks[1].ID.String(), "to": 4}))
	assert.Equal(t, 4, out.UpdateTaskPosition.ListOrder)
	assert.Equal(t, []string{"A", "C", "D", "E", "B", "F"}, f.titles(t, list.ID.String()))

	decode[struct{ UpdateTaskPosition taskJSON }](t, do(t, f.handler, move,
		map[string]any{"id": tasks[1].ID.String(), "to": 1}))
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, f.titles(t, list.ID.String()))

	t.Run("rejections leave the list untouched", func(t *testing.T) {
		cases := []struct {
			name string
			id   string
			to   int
			code string
		}{
			{"same position", tasks[2].ID.String(), 2, "invalid_argument"},
			{"past the tail", tasks[2].ID.String(), 6, "invalid_argument"},
			{"negative", tasks[2].ID.String(), -1, "invalid_argument"},
			{"missing task", idwrap.NewNow().String(), 0, "not_found"},
			{"malformed id", "not-an-id", 0, "invalid_argument"},
		}
		for _, tc := range cases {
			resp := do(t, f.handler, move, map[string]any{"id": tc.id, "to": tc.to})
			assert.Equal(t, tc.code, resp.code(t), tc.name)
		}
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, f.titles(t, list.ID.String()))
	})
}

func TestUpdateTaskFieldsOnly(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, tasks := f.db.SeedList("chores", "sweep", "mop", "dust")
	const update = `mutation($id: ID!, $input: UpdateTaskInput!) {
		updateTask(id: $id, input: $input) { title completed listOrder }
	}`

	out := decode[struct{ UpdateTask taskJSON }](t, do(t, f.handler, update, map[string]any{
		"id":    tasks[1].ID.String(),
		"input": map[string]any{"completed": true},
	}))
	assert.Equal(t, taskJSON{Title: "mop", Completed: true, ListOrder: 1}, out.UpdateTask)

	out = decode[struct{ UpdateTask taskJSON }](t, do(t, f.handler, update, map[string]any{
		"id":    tasks[1].ID.String(),
		"input": map[string]any{"title": "mop floors"},
	}))
	assert.Equal(t, taskJSON{Title: "mop floors", Completed: true, ListOrder: 1}, out.UpdateTask)

	out = decode[struct{ UpdateTask taskJSON }](t, do(t, f.handler, update, map[string]any{
		"id":    tasks[1].ID.String(),
		"input": map[string]any{},
	}))
	assert.Equal(t, taskJSON{Title: "mop floors", Completed: true, ListOrder: 1}, out.UpdateTask)

	resp := do(t, f.handler, update, map[string]any{
		"id":    tasks[1].ID.String(),
		"input": map[string]any{"title": ""},
	})
	assert.Equal(t, "invalid_argument", resp.code(t))

	assert.Equal(t, []string{"sweep", "mop floors", "dust"}, f.titles(t, list.ID.String()))
}

func TestDeleteTaskClosesGap(t *testing.T) {
	for _, policy := range []stask.DeletePolicy{stask.DeletePolicyAtomic, stask.DeletePolicySoft} {
		t.Run(string(policy), func(t *testing.T) {
			f := newFixture(t, policy)
			list, tasks := f.db.SeedList("letters", "A", "B", "C", "D", "E", "F")
			const del = `mutation($id: ID!) { deleteTask(id: $id) { success } }`

			out := decode[struct{ DeleteTask struct{ Success bool } }](t, do(t, f.handler, del,
				map[string]any{"id": tasks[3].ID.String()}))
			assert.True(t, out.DeleteTask.Success)
			assert.Equal(t, []string{"A", "B", "C", "E", "F"}, f.titles(t, list.ID.String()))

			resp := do(t, f.handler, del, map[string]any{"id": tasks[3].ID.String()})
			assert.Equal(t, "not_found", resp.code(t))
		})
	}
}

func TestSoftDeletePartialFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	streamer := changefeed.NewStreamer()
	t.Cleanup(streamer.Shutdown)
	h := newHandler(t, db, stask.DeletePolicySoft, streamer, 10)

	id, listID := idwrap.NewNow(), idwrap.NewNow()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := streamer.Subscribe(ctx, func(tp changefeed.Topic) bool { return tp.ListID == listID.String() })
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM tasks").WillReturnRows(
		sqlmock.NewRows([]string{"id", "list_id", "title", "completed", "list_order"}).
			AddRow(id.Bytes(), listID.Bytes(), "D", false, int64(3)))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tasks").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	out := decode[struct{ DeleteTask struct{ Success bool } }](t, do(t, h,
		`mutation($id: ID!) { deleteTask(id: $id) { success } }`, map[string]any{"id": id.String()}))
	assert.False(t, out.DeleteTask.Success)
	require.NoError(t, mock.ExpectationsWereMet())

	var kinds []changefeed.Kind
	for len(kinds) < 2 {
		select {
		case evt := <-events:
			kinds = append(kinds, evt.Payload.Kind)
		case <-time.After(time.Second):
			t.Fatalf("expected two events, got %v", kinds)
		}
	}
	assert.Equal(t, []changefeed.Kind{changefeed.KindTaskDelete, changefeed.KindReconcileNeeded}, kinds)
}

func TestStorageFailureIsCoded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	streamer := changefeed.NewStreamer()
	t.Cleanup(streamer.Shutdown)
	h := newHandler(t, db, stask.DeletePolicyAtomic, streamer, 10)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM tasks").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	resp := do(t, h, `mutation($id: ID!) { deleteTask(id: $id) { success } }`,
		map[string]any{"id": idwrap.NewNow().String()})
	assert.Equal(t, "storage", resp.code(t))
	assert.Equal(t, "storage failure", resp.Errors[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListLifecycle(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, tasks := f.db.SeedList("work", "one", "two")
	other, _ := f.db.SeedList("home", "three")

	updated := decode[struct{ UpdateList listJSON }](t, do(t, f.handler,
		`mutation($id: ID!) { updateList(id: $id, input: {title: "office"}) { id title } }`,
		map[string]any{"id": list.ID.String()}))
	assert.Equal(t, "office", updated.UpdateList.Title)

	resp := do(t, f.handler, `mutation($id: ID!) { updateList(id: $id, input: {title: ""}) { id } }`,
		map[string]any{"id": list.ID.String()})
	assert.Equal(t, "invalid_argument", resp.code(t))

	viaTask := decode[struct{ Task struct{ List listJSON } }](t, do(t, f.handler,
		`query($id: ID!) { task(id: $id) { list { title } } }`, map[string]any{"id": tasks[0].ID.String()}))
	assert.Equal(t, "office", viaTask.Task.List.Title)

	deleted := decode[struct{ DeleteList struct{ Success bool } }](t, do(t, f.handler,
		`mutation($id: ID!) { deleteList(id: $id) { success } }`, map[string]any{"id": list.ID.String()}))
	assert.True(t, deleted.DeleteList.Success)

	assert.Empty(t, f.db.Tasks(list.ID))
	assert.Len(t, f.db.Tasks(other.ID), 1)

	for _, q := range []string{
		`query($id: ID!) { list(id: $id) { id } }`,
		`mutation($id: ID!) { deleteList(id: $id) { success } }`,
		`mutation($id: ID!) { createTask(listId: $id, input: {title: "x"}) { id } }`,
	} {
		resp := do(t, f.handler, q, map[string]any{"id": list.ID.String()})
		assert.Equal(t, "not_found", resp.code(t), q)
	}

	resp = do(t, f.handler, `query($id: ID!) { task(id: $id) { id } }`, map[string]any{"id": tasks[1].ID.String()})
	assert.Equal(t, "not_found", resp.code(t))
	assert.Equal(t, "task "+tasks[1].ID.String()+" not found", resp.Errors[0].Message)

	resp = do(t, f.handler, `query($id: ID!) { list(id: $id) { id } }`, map[string]any{"id": list.ID.String()})
	assert.Equal(t, "not_found", resp.code(t))
	assert.Equal(t, "list "+list.ID.String()+" not found", resp.Errors[0].Message)
}

func TestSearchTasks(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, _ := f.db.SeedList("shopping", "buy milk", "call mom", "buy bread", "Buy eggs")

	out := decode[struct {
		SearchTasks []struct {
			Task     taskJSON
			Distance int
		}
	}](t, do(t, f.handler,
		`query($id: ID!) { searchTasks(listId: $id, query: "buy") { task { title } distance } }`,
		map[string]any{"id": list.ID.String()}))
	require.Len(t, out.SearchTasks, 3)
	for i, m := range out.SearchTasks {
		assert.Contains(t, []string{"buy milk", "buy bread", "Buy eggs"}, m.Task.Title)
		if i > 0 {
			assert.GreaterOrEqual(t, m.Distance, out.SearchTasks[i-1].Distance)
		}
	}

	resp := do(t, f.handler, `query($id: ID!) { searchTasks(listId: $id, query: "x") { distance } }`,
		map[string]any{"id": idwrap.NewNow().String()})
	assert.Equal(t, "not_found", resp.code(t))
}

func TestRepairListOrder(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, tasks := f.db.SeedList("gappy", "A", "B", "C")
	f.db.SetPosition(tasks[1].ID, 5)
	f.db.SetPosition(tasks[2].ID, 9)

	out := decode[struct{ RepairListOrder listJSON }](t, do(t, f.handler,
		`mutation($id: ID!) { repairListOrder(listId: $id) { title tasks { title listOrder } } }`,
		map[string]any{"id": list.ID.String()}))
	require.Len(t, out.RepairListOrder.Tasks, 3)
	assert.Equal(t, []string{"A", "B", "C"}, f.titles(t, list.ID.String()))
	f.db.AssertDense(list.ID)
}

func TestPing(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)

	q := decode[struct{ Ping string }](t, do(t, f.handler, `{ ping(message: "hello") }`, nil))
	assert.Equal(t, "PING:hello", q.Ping)

	m := decode[struct{ Ping string }](t, do(t, f.handler, `mutation { ping(message: "again") }`, nil))
	assert.Equal(t, "PING:again", m.Ping)
}

func TestMutationsPublishChanges(t *testing.T) {
	f := newFixture(t, stask.DeletePolicyAtomic)
	list, tasks := f.db.SeedList("feed", "A", "B")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := f.streamer.Subscribe(ctx, func(tp changefeed.Topic) bool { return tp.ListID == list.ID.String() })
	require.NoError(t, err)

	do(t, f.handler, `mutation($id: ID!) { createTask(listId: $id, input: {title: "N"}) { id } }`,
		map[string]any{"id": list.ID.String()})
	do(t, f.handler, `mutation($id: ID!) { updateTaskPosition(id: $id, input: {listOrder: 0}) { id } }`,
		map[string]any{"id": tasks[1].ID.String()})

	// a rejected move publishes nothing
	do(t, f.handler, `mutation($id: ID!) { updateTaskPosition(id: $id, input: {listOrder: 0}) { id } }`,
		map[string]any{"id": tasks[1].ID.String()})

	first := <-events
	assert.Equal(t, changefeed.KindTaskInsert, first.Payload.Kind)
	require.NotNil(t, first.Payload.Task)
	assert.Equal(t, "N", first.Payload.Task.Title)

	second := <-events
	assert.Equal(t, changefeed.KindTaskMove, second.Payload.Kind)
	assert.Equal(t, 0, second.Payload.Task.ListOrder)

	select {
	case evt := <-events:
		t.Fatalf("unexpected event %v", evt.Payload.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMaxDepth(t *testing.T) {
	ctx := context.Background()
	db := testutil.CreateTestDB(ctx, t)
	streamer := changefeed.NewStreamer()
	t.Cleanup(streamer.Shutdown)
	h := newHandler(t, db.DB, stask.DeletePolicyAtomic, streamer, 3)

	resp := do(t, h, `{ lists { tasks { list { tasks { id } } } } }`, nil)
	assert.NotEmpty(t, resp.Errors)

	resp = do(t, h, `{ lists { tasks { id } } }`, nil)
	assert.Empty(t, resp.Errors)
}

func TestNewPanicsWithoutDeps(t *testing.T) {
	assert.Panics(t, func() { New(TodoRPCDeps{}) })
}
