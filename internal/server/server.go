// Package server exposes the read-only JSON API over the stored analyzed
// events: the event list, the spending forecast, the insights report, and the
// notification feed.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spendcal/spendcal/internal/forecast"
	"github.com/spendcal/spendcal/internal/insights"
	"github.com/spendcal/spendcal/internal/logger"
	"github.com/spendcal/spendcal/internal/models"
)

// EventSource provides the analyzed events the API reads. *storage.Storage
// satisfies it.
type EventSource interface {
	AllEvents() ([]models.AnalyzedEvent, error)
	EventsInRange(from, to time.Time) ([]models.AnalyzedEvent, error)
}

// Server serves the JSON API.
type Server struct {
	store EventSource
	http  *http.Server
}

// New builds a Server listening on addr.
func New(addr string, store EventSource) *Server {
	s := &Server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Get("/forecast", s.handleForecast)
		r.Get("/insights", s.handleInsights)
		r.Get("/notifications", s.handleNotifications)
	})

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the underlying router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	logger.Info("HTTP API listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvents returns analyzed events, optionally bounded by from/to
// (RFC 3339) query parameters.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	from, fromErr := parseTimeParam(r, "from")
	to, toErr := parseTimeParam(r, "to")
	if fromErr != nil || toErr != nil {
		writeError(w, http.StatusBadRequest, "from and to must be RFC 3339 timestamps")
		return
	}

	var events []models.AnalyzedEvent
	var err error
	if !from.IsZero() || !to.IsZero() {
		if to.IsZero() {
			to = time.Now().AddDate(1, 0, 0)
		}
		events, err = s.store.EventsInRange(from, to)
	} else {
		events, err = s.store.AllEvents()
	}
	if err != nil {
		logger.Error("failed to load events: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// handleForecast computes the spending forecast over the requested timeframe
// (week, month, or quarter; anything else falls back to week).
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	timeframe := forecast.ParseTimeframe(r.URL.Query().Get("timeframe"))

	now := time.Now()
	events, err := s.store.EventsInRange(now, now.AddDate(0, 0, timeframe.Days()))
	if err != nil {
		logger.Error("failed to load events: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	analysis := forecast.Analyze(events)
	risk := forecast.AssessRisk(events, analysis)

	writeJSON(w, http.StatusOK, map[string]any{
		"timeframe":       string(timeframe),
		"event_count":     len(events),
		"analysis":        analysis,
		"predictions":     forecast.Predict(analysis, timeframe),
		"risk_assessment": risk,
		"recommendations": forecast.Recommend(events, analysis, risk),
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	events, err := s.store.EventsInRange(now.AddDate(0, 0, -1), now.AddDate(0, 0, 30))
	if err != nil {
		logger.Error("failed to load events: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	writeJSON(w, http.StatusOK, insights.Summarize(events, now))
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	events, err := s.store.EventsInRange(now.AddDate(0, 0, -1), now.AddDate(0, 0, 7))
	if err != nil {
		logger.Error("failed to load events: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": insights.BuildNotifications(events, now),
	})
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
