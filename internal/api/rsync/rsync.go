// Package rsync streams list changes to websocket clients.
package rsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"

	"github.com/the-dev-tools/todolist/internal/api"
	"github.com/the-dev-tools/todolist/internal/api/middleware/mwrequest"
	"github.com/the-dev-tools/todolist/pkg/changefeed"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/service/slist"
)

const (
	Path = "/sync"

	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

type SyncService struct {
	listReader *slist.Reader
	streamer   changefeed.Streamer
	logger     *slog.Logger

	pingInterval time.Duration
	origins      []string
}

type SyncServiceDeps struct {
	ListReader *slist.Reader
	Streamer   changefeed.Streamer
	Logger     *slog.Logger
	// OriginPatterns are passed to the websocket handshake. Empty allows
	// same-origin requests only.
	OriginPatterns []string
}

func (d *SyncServiceDeps) Validate() error {
	if d.ListReader == nil {
		return fmt.Errorf("list reader is required")
	}
	if d.Streamer == nil {
		return fmt.Errorf("streamer is required")
	}
	return nil
}

func New(deps SyncServiceDeps) *SyncService {
	if err := deps.Validate(); err != nil {
		panic(fmt.Sprintf("SyncService Deps validation failed: %v", err))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		listReader:   deps.ListReader,
		streamer:     deps.Streamer,
		logger:       logger,
		pingInterval: pingInterval,
		origins:      deps.OriginPatterns,
	}
}

func CreateService(srv *SyncService) (*api.Service, error) {
	return &api.Service{Path: Path, Handler: srv}, nil
}

// ServeHTTP upgrades the request and forwards every change of the list named
// by the listId query parameter until the client goes away.
func (s *SyncService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listID, err := idwrap.NewText(r.URL.Query().Get("listId"))
	if err != nil {
		http.Error(w, "invalid listId", http.StatusBadRequest)
		return
	}
	if _, err := s.listReader.GetList(r.Context(), listID); err != nil {
		if errors.Is(err, slist.ErrNoListFound) {
			http.Error(w, "list not found", http.StatusNotFound)
			return
		}
		s.logger.ErrorContext(r.Context(), "sync list lookup failed",
			"list_id", listID.String(),
			"request_id", mwrequest.RequestID(r.Context()),
			"error", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	// Subscribe before the handshake so nothing committed after the client
	// is connected can be missed.
	subCtx, cancel := context.WithCancel(r.Context())
	defer cancel()
	topic := listID.String()
	events, err := s.streamer.Subscribe(subCtx, func(t changefeed.Topic) bool { return t.ListID == topic })
	if err != nil {
		http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.logger.WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(subCtx)
	s.logger.DebugContext(ctx, "sync client connected", "list_id", topic)

	err = s.stream(ctx, conn, events)
	switch {
	case err == nil:
		conn.Close(websocket.StatusGoingAway, "feed closed")
	case websocket.CloseStatus(err) != -1, errors.Is(err, context.Canceled):
		// client went away
	default:
		s.logger.WarnContext(r.Context(), "sync stream ended", "list_id", topic, "error", err)
		conn.Close(websocket.StatusInternalError, "")
	}
}

// stream writes events until ctx is done or the channel is closed, which
// returns nil.
func (s *SyncService) stream(ctx context.Context, conn *websocket.Conn, events <-chan changefeed.Event) error {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				return fmt.Errorf("encode change: %w", err)
			}
			if err := write(ctx, conn, data); err != nil {
				return err
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
