package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aviu16/mercury-bot/pkg/model"
	"github.com/aviu16/mercury-bot/pkg/monitor"
	"github.com/aviu16/mercury-bot/pkg/storage"
)

// Server exposes the monitor over HTTP: health, scheduler status, runtime
// notification settings, and the dispatched-alert audit log.
type Server struct {
	scheduler *monitor.Scheduler
	settings  *monitor.Settings
	store     storage.Storage
	mux       *http.ServeMux
	logger    *slog.Logger
}

// NewServer creates an API server.
func NewServer(sched *monitor.Scheduler, settings *monitor.Settings, store storage.Storage, logger *slog.Logger) *Server {
	s := &Server{
		scheduler: sched,
		settings:  settings,
		store:     store,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/v1/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/v1/settings", s.handlePutSettings)
	s.mux.HandleFunc("GET /api/v1/alerts", s.handleAlerts)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.scheduler.Status())
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.settings.Get())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var next model.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		http.Error(w, "invalid settings payload", http.StatusBadRequest)
		return
	}
	if next.MinAmountMinor < 0 {
		http.Error(w, "min_amount_minor must not be negative", http.StatusBadRequest)
		return
	}
	if next.CooldownSeconds < 0 {
		http.Error(w, "cooldown_seconds must not be negative", http.StatusBadRequest)
		return
	}

	s.settings.Set(next)

	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		if err := s.store.SaveSettings(ctx, next); err != nil {
			// Runtime state already updated; persistence catches up on
			// the next successful save.
			s.logger.Error("persist settings", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(next)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "alert history unavailable", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := s.store.RecentAlerts(ctx, limit)
	if err != nil {
		s.logger.Error("query alerts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.AlertRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
