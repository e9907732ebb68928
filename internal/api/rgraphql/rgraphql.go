// Package rgraphql serves the todolist GraphQL API.
package rgraphql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/the-dev-tools/todolist/internal/api"
	"github.com/the-dev-tools/todolist/internal/api/middleware/mwrequest"
	"github.com/the-dev-tools/todolist/pkg/changefeed"
	"github.com/the-dev-tools/todolist/pkg/errmap"
	"github.com/the-dev-tools/todolist/pkg/idwrap"
	"github.com/the-dev-tools/todolist/pkg/service/slist"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
)

const Path = "/graphql"

//go:embed schema.graphql
var schemaSDL string

// TodoRPC is the root resolver for both queries and mutations.
type TodoRPC struct {
	DB *sql.DB

	listReader *slist.Reader
	taskReader *stask.Reader
	ordering   *stask.OrderingService
	streamer   changefeed.Streamer
	logger     *slog.Logger
}

type TodoRPCDeps struct {
	DB       *sql.DB
	Ordering *stask.OrderingService
	Streamer changefeed.Streamer
	Logger   *slog.Logger
}

func (d *TodoRPCDeps) Validate() error {
	if d.DB == nil {
		return fmt.Errorf("db is required")
	}
	if d.Ordering == nil {
		return fmt.Errorf("ordering service is required")
	}
	if d.Streamer == nil {
		return fmt.Errorf("streamer is required")
	}
	return nil
}

func New(deps TodoRPCDeps) *TodoRPC {
	if err := deps.Validate(); err != nil {
		panic(fmt.Sprintf("TodoRPC Deps validation failed: %v", err))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &TodoRPC{
		DB:         deps.DB,
		listReader: slist.NewReader(deps.DB, logger),
		taskReader: stask.NewReader(deps.DB, logger),
		ordering:   deps.Ordering,
		streamer:   deps.Streamer,
		logger:     logger,
	}
}

// CreateService parses the schema against srv and mounts it at Path.
func CreateService(srv *TodoRPC, maxDepth int) (*api.Service, error) {
	schema, err := graphql.ParseSchema(schemaSDL, srv, graphql.MaxDepth(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &api.Service{Path: Path, Handler: &relay.Handler{Schema: schema}}, nil
}

// fail maps err to a coded error. Storage failures are logged since their
// cause is not shown to the client.
func (s *TodoRPC) fail(ctx context.Context, op string, err error) error {
	mapped := errmap.Map(err)
	if errmap.CodeOf(err) == errmap.CodeStorage {
		s.logger.ErrorContext(ctx, "graphql operation failed",
			"op", op,
			"request_id", mwrequest.RequestID(ctx),
			"error", err)
	}
	return mapped
}

func parseID(id graphql.ID) (idwrap.IDWrap, error) {
	return idwrap.NewText(string(id))
}
