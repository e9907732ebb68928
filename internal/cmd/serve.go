package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/the-dev-tools/todolist/internal/api"
	"github.com/the-dev-tools/todolist/internal/api/middleware/mwrequest"
	"github.com/the-dev-tools/todolist/internal/api/rgraphql"
	"github.com/the-dev-tools/todolist/internal/api/rhealth"
	"github.com/the-dev-tools/todolist/internal/api/rsync"
	"github.com/the-dev-tools/todolist/internal/config"
	"github.com/the-dev-tools/todolist/pkg/changefeed"
	"github.com/the-dev-tools/todolist/pkg/compress"
	"github.com/the-dev-tools/todolist/pkg/service/slist"
	"github.com/the-dev-tools/todolist/pkg/service/stask"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GraphQL server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ln, err := net.Listen("tcp", cfg.Server.Address)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return run(ctx, cfg, ln, logger)
	},
}

// run serves on ln until ctx is done.
func run(ctx context.Context, cfg *config.Config, ln net.Listener, logger *slog.Logger) error {
	db, cleanup, err := openDatabase(ctx, cfg.DB, logger)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("open database: %w", err)
	}
	defer cleanup()

	streamer := changefeed.NewStreamer()
	defer streamer.Shutdown()

	handler, err := newHandler(db, cfg, streamer, logger)
	if err != nil {
		_ = ln.Close()
		return err
	}
	srv := api.NewServer(cfg.Server.Address, handler, cfg.Server.ReadHeaderTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gctx, "server listening", "address", ln.Addr().String(), "db", cfg.DB.Path)
		return api.Serve(gctx, srv, ln, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		<-gctx.Done()
		// open websocket streams end with the feed
		streamer.Shutdown()
		return nil
	})

	err = g.Wait()
	logger.InfoContext(context.WithoutCancel(ctx), "server stopped")
	return err
}

func newHandler(db *sql.DB, cfg *config.Config, streamer changefeed.Streamer, logger *slog.Logger) (http.Handler, error) {
	policy, err := stask.ParseDeletePolicy(cfg.Ordering.DeletePolicy)
	if err != nil {
		return nil, err
	}
	ordering := stask.NewOrderingService(db, policy, logger)

	var services []api.Service

	graphqlSrv := rgraphql.New(rgraphql.TodoRPCDeps{
		DB:       db,
		Ordering: ordering,
		Streamer: streamer,
		Logger:   logger,
	})
	graphqlService, err := rgraphql.CreateService(graphqlSrv, cfg.GraphQL.MaxDepth)
	if err != nil {
		return nil, err
	}
	services = append(services, *graphqlService)

	syncSrv := rsync.New(rsync.SyncServiceDeps{
		ListReader: slist.NewReader(db, logger),
		Streamer:   streamer,
		Logger:     logger,
	})
	syncService, err := rsync.CreateService(syncSrv)
	if err != nil {
		return nil, err
	}
	services = append(services, *syncService)

	healthService, err := rhealth.CreateService(rhealth.New(db, logger))
	if err != nil {
		return nil, err
	}
	services = append(services, *healthService)

	return api.NewHandler(logger, services, mwrequest.New(logger), compress.Middleware), nil
}
