//nolint:revive // exported
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Service struct {
	Handler http.Handler
	Path    string
}

// Middleware wraps the whole mux. The first one given is the outermost.
type Middleware func(http.Handler) http.Handler

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept-Encoding",
			"Content-Encoding",
			"X-Request-Id",
		},
		MaxAge: int(time.Hour / time.Second),
	})
}

// NewHandler mounts services on a mux behind CORS and the given middlewares.
func NewHandler(logger *slog.Logger, services []Service, middlewares ...Middleware) http.Handler {
	mux := http.NewServeMux()
	for _, service := range services {
		logger.Info("Registering service", "path", service.Path)
		mux.Handle(service.Path, service.Handler)
	}

	var h http.Handler = newCORS().Handler(mux)
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// NewServer returns an HTTP server that also speaks HTTP/2 without TLS.
func NewServer(addr string, handler http.Handler, readHeaderTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: readHeaderTimeout,
		// INFO: Use h2c so we can serve HTTP/2 without TLS.
		Handler: h2c.NewHandler(handler, &http2.Server{
			MaxConcurrentStreams: 1000,
		}),
	}
}

// Serve runs srv on ln until ctx is done, then shuts it down gracefully
// within shutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
