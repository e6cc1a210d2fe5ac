package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecardgame/ecard-server/internal/middleware"
	"github.com/ecardgame/ecard-server/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger    *slog.Logger
	Hub       *ws.Hub
	StaticDir string
}

// NewRouter creates the HTTP router: the websocket endpoint, a health
// check, and the static client assets.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", cfg.Hub.ServeWS)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
