// Package server wires the HTTP routes, middleware chain, and WebSocket hub.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/HEGATNB/kyrsach-basketball/internal/auth"
	"github.com/HEGATNB/kyrsach-basketball/internal/domain"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/handler"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/middleware"
	"github.com/HEGATNB/kyrsach-basketball/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string

	// AuthRateLimit caps requests per client IP on the credential endpoints.
	// Zero disables rate limiting.
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Teams       *handler.TeamHandler
	Players     *handler.PlayerHandler
	Matches     *handler.MatchHandler
	Predictions *handler.PredictionHandler
	Audit       *handler.AuditHandler
}

// Server is the HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer registers all routes and builds the middleware chain
// (CORS -> logging -> per-route auth and role checks).
func NewServer(
	cfg Config,
	handlers Handlers,
	tokens *auth.TokenManager,
	limiter domain.RateLimiter,
	wsHub *ws.Hub,
	logger *slog.Logger,
) *Server {
	mux := http.NewServeMux()

	authed := middleware.Authenticate(tokens)
	admin := middleware.RequireRole(domain.RoleAdmin)
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleOperator)

	protect := func(h http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
		var wrapped http.Handler = h
		for i := len(mws) - 1; i >= 0; i-- {
			wrapped = mws[i](wrapped)
		}
		return wrapped
	}

	credential := func(h http.HandlerFunc) http.Handler {
		if limiter == nil || cfg.AuthRateLimit <= 0 {
			return h
		}
		return middleware.RateLimit(limiter, cfg.AuthRateLimit, cfg.AuthRateWindow)(h)
	}

	// Health check and auth (public).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)
	mux.Handle("POST /api/auth/register", credential(handlers.Auth.Register))
	mux.Handle("POST /api/auth/login", credential(handlers.Auth.Login))
	mux.Handle("GET /api/auth/me", protect(handlers.Auth.Me, authed))

	// Teams.
	mux.HandleFunc("GET /api/teams", handlers.Teams.List)
	mux.HandleFunc("GET /api/teams/{id}", handlers.Teams.Get)
	mux.HandleFunc("GET /api/teams/{id}/players", handlers.Teams.Roster)
	mux.Handle("POST /api/teams", protect(handlers.Teams.Create, authed, staff))
	mux.Handle("PUT /api/teams/{id}", protect(handlers.Teams.Update, authed, staff))
	mux.Handle("DELETE /api/teams/{id}", protect(handlers.Teams.Delete, authed, admin))

	// Players.
	mux.Handle("POST /api/players", protect(handlers.Players.Create, authed, staff))
	mux.Handle("PUT /api/players/{id}", protect(handlers.Players.Update, authed, staff))
	mux.Handle("DELETE /api/players/{id}", protect(handlers.Players.Delete, authed, admin))

	// Matches.
	mux.HandleFunc("GET /api/matches", handlers.Matches.List)
	mux.HandleFunc("GET /api/matches/{id}", handlers.Matches.Get)
	mux.Handle("POST /api/matches", protect(handlers.Matches.Create, authed, staff))
	mux.Handle("PUT /api/matches/{id}/result", protect(handlers.Matches.SettleResult, authed, staff))
	mux.Handle("DELETE /api/matches/{id}", protect(handlers.Matches.Delete, authed, admin))

	// Predictions and model endpoints.
	mux.Handle("POST /api/predict", protect(handlers.Predictions.Predict, authed))
	mux.Handle("GET /api/predictions/my", protect(handlers.Predictions.My, authed))
	mux.Handle("GET /api/predictions/{id}", protect(handlers.Predictions.Get, authed))
	mux.Handle("POST /api/predictions/train/{matchId}", protect(handlers.Predictions.Train, authed, admin))
	mux.Handle("GET /api/predict/evaluate", protect(handlers.Predictions.Evaluate, authed))
	mux.Handle("GET /api/predict/stats", protect(handlers.Predictions.Stats, authed, admin))

	// Audit log.
	mux.Handle("GET /api/audit", protect(handlers.Audit.List, authed, admin))

	// Live events.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
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
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
