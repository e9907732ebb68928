package mwrequest

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-dev-tools/todolist/pkg/logger/mocklogger"
)

func TestAssignsRequestID(t *testing.T) {
	logger, logs := mocklogger.NewMockLoggerWithHandler()

	var seen string
	h := New(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	entries := logs.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)
	assert.EqualValues(t, http.StatusTeapot, entries[0].Attrs["status"])
	assert.Equal(t, "/x", entries[0].Attrs["path"])
}

func TestKeepsValidIncomingID(t *testing.T) {
	incoming := uuid.NewString()
	var seen string
	h := New(mocklogger.NewMockLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-uuid", seen)
}

func TestServerErrorsLogAtErrorLevel(t *testing.T) {
	logger, logs := mocklogger.NewMockLoggerWithHandler()
	h := New(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"request"}, logs.Messages(slog.LevelError))
}

func TestRequestIDEmptyContext(t *testing.T) {
	assert.Empty(t, RequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
