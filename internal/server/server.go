package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"KyoteiSentinel/internal/bankroll"
	"KyoteiSentinel/internal/store"
)

// Server exposes the read-only HTTP API: bankroll state, sizing
// previews and performance reports. It never places bets.
type Server struct {
	http    *http.Server
	manager *bankroll.Manager
	rec     store.Recorder
	log     *zap.Logger
}

// New builds the server and its routes.
func New(port int, m *bankroll.Manager, rec store.Recorder, log *zap.Logger) *Server {
	s := &Server{manager: m, rec: rec, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/v1/bankroll", s.handleBankroll)
	r.Post("/api/v1/size", s.handleSize)
	r.Get("/api/v1/report", s.handleReport)

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
