package rhealth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/db/pkg/sqlitemem"
	"github.com/the-dev-tools/todolist/pkg/logger/mocklogger"
)

type downDB struct{}

func (downDB) PingContext(context.Context) error { return errors.New("closed") }

func get(t *testing.T, srv *HealthService, method string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, Path, nil))
	var body map[string]string
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthOK(t *testing.T) {
	t.Parallel()

	db, cleanup, err := sqlitemem.NewSQLiteMem(context.Background())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	svc, err := CreateService(New(db, mocklogger.NewMockLogger()))
	require.NoError(t, err)
	assert.Equal(t, Path, svc.Path)

	rec, body := get(t, New(db, nil), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHealthUnavailable(t *testing.T) {
	t.Parallel()

	rec, body := get(t, New(downDB{}, mocklogger.NewMockLogger()), http.MethodGet)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestHealthRejectsPost(t *testing.T) {
	t.Parallel()

	rec, _ := get(t, New(downDB{}, nil), http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
