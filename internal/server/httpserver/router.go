package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// RouterConfig holds the handlers served by the router.
type RouterConfig struct {
	// Metrics serves /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Build is reported by /healthz.
	Build map[string]string

	// Logger for request logging.
	Logger *slog.Logger
}

// NewRouter creates the HTTP router.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if cfg.Build != nil {
			body["build"] = cfg.Build
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	return Chain(mux, Recover(logger), AccessLog(logger))
}
