// Package web exposes the daemon's HTTP surface: the proxy forwarder
// endpoint, the calendar state and grid APIs, and an iCalendar export.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lilachbitton/newcalander/internal/config"
	"github.com/lilachbitton/newcalander/internal/controller"
)

// Server wires the HTTP handlers to the controller.
type Server struct {
	cfg    config.Runtime
	ctrl   *controller.Controller
	logger *slog.Logger
	mux    *http.ServeMux
}

// New builds a server around the given runtime config and controller.
func New(cfg config.Runtime, ctrl *controller.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, ctrl: ctrl, logger: logger, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/proxy", s.handleProxy)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/events.ics", s.handleEventsICS)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/navigate", s.handleNavigate)
	s.mux.HandleFunc("/api/view", s.handleView)
	s.mux.HandleFunc("/api/config", s.handleConfig)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("write json response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
