// Package server hosts the HTTP and WebSocket API for the ledger.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Emmy123222/arbintent/internal/server/handler"
	"github.com/Emmy123222/arbintent/internal/server/middleware"
	"github.com/Emmy123222/arbintent/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // empty disables authentication
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health     *handler.HealthHandler
	Intents    *handler.IntentHandler
	Executions *handler.ExecutionHandler
	Users      *handler.UserHandler
	Info       *handler.InfoHandler
}

// Server is the ledger API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// New creates a Server with all routes registered and the middleware chain
// (auth, logging, CORS) applied. wsHub may be nil in memory mode.
func New(cfg Config, handlers Handlers, wsHub *ws.Hub, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health and metrics bypass nothing: they sit behind the same chain so
	// probes exercise the full stack.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Intent lifecycle.
	mux.HandleFunc("POST /api/intents", handlers.Intents.CreateIntent)
	mux.HandleFunc("GET /api/intents/{id}", handlers.Intents.GetIntent)
	mux.HandleFunc("POST /api/intents/{id}/pause", handlers.Intents.PauseIntent)
	mux.HandleFunc("POST /api/intents/{id}/resume", handlers.Intents.ResumeIntent)
	mux.HandleFunc("POST /api/intents/{id}/execute", handlers.Intents.ExecuteArbitrage)

	// Execution records and cross-chain signatures.
	mux.HandleFunc("GET /api/executions/{id}", handlers.Executions.GetExecution)
	mux.HandleFunc("POST /api/executions/{id}/signature", handlers.Executions.StoreSignature)
	mux.HandleFunc("GET /api/executions/{id}/signature", handlers.Executions.GetSignature)
	mux.HandleFunc("GET /api/executions/{id}/signature/verify", handlers.Executions.VerifySignature)

	// Per-account queries.
	mux.HandleFunc("GET /api/users/{account}/intents", handlers.Users.ListIntents)
	mux.HandleFunc("GET /api/users/{account}/executions", handlers.Users.ListExecutions)
	mux.HandleFunc("GET /api/users/{account}/profit", handlers.Users.GetProfit)

	// Ledger summary.
	mux.HandleFunc("GET /api/info", handlers.Info.GetInfo)

	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Handler returns the fully assembled handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
