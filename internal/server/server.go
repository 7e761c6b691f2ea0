// Package server exposes the read-only query surface: recent signals, full
// history, liveness, and Prometheus metrics. Pass-through reads only.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"MarketScout/internal/engine"
	"MarketScout/internal/model"
	"MarketScout/internal/repository"
)

// Server serves the HTTP status surface.
type Server struct {
	router      *mux.Router
	server      *http.Server
	repo        repository.Repository
	engine      *engine.Engine
	recentLimit int
	started     time.Time
	log         zerolog.Logger
}

func New(addr string, repo repository.Repository, e *engine.Engine, recentLimit int, log zerolog.Logger) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		repo:        repo,
		engine:      e,
		recentLimit: recentLimit,
		started:     time.Now(),
		log:         log,
	}
	s.routes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/signals", s.handleSignals).Methods(http.MethodGet)
	s.router.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Start runs the listener in the background.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("http server stopped")
		}
	}()
	s.log.Info().Str("addr", s.server.Addr).Msg("http server started")
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(s.repo.Recent(s.recentLimit)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.All()
	if err != nil {
		s.log.Error().Err(err).Msg("history query")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(all))
}

type statusResponse struct {
	Status        string           `json:"status"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	MarketOpen    bool             `json:"market_open"`
	Watchlist     int              `json:"watchlist"`
	LastCycle     engine.CycleInfo `json:"last_cycle"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		MarketOpen:    s.engine.MarketOpen(),
		Watchlist:     s.engine.Universe(),
		LastCycle:     s.engine.LastCycle(),
	})
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil(signals []model.Signal) []model.Signal {
	if signals == nil {
		return []model.Signal{}
	}
	return signals
}
