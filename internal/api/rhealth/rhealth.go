//nolint:revive // exported
package rhealth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/the-dev-tools/todolist/internal/api"
)

const Path = "/health"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthService struct {
	db     Pinger
	logger *slog.Logger
}

type status struct {
	Status string `json:"status"`
}

func New(db Pinger, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{db: db, logger: logger}
}

func CreateService(srv *HealthService) (*api.Service, error) {
	return &api.Service{Path: Path, Handler: srv}, nil
}

func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	code, body := http.StatusOK, status{Status: "ok"}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		code, body = http.StatusServiceUnavailable, status{Status: "unavailable"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
