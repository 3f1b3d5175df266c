// Package server implements the HTTP server, middleware, and request handlers for the application.
package server

import (
	"net/http"

	"github.com/woozymasta/seplayers/internal/config"
	"github.com/woozymasta/seplayers/internal/game"
)

// New creates a new Server querying target through querier.
func New(querier game.Querier, target game.Target, cfg *config.Config) *Server {
	return &Server{
		querier:        querier,
		target:         target,
		corsOrigin:     cfg.Server.CORSOrigin,
		trustProxy:     cfg.Server.TrustProxy,
		rateLimitCount: cfg.RateLimit.Count,
		rateLimitWin:   cfg.RateLimit.Window,
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()
	limit := s.RateLimitMiddleware()

	mux.Handle("GET /players", limit(http.HandlerFunc(s.handlePlayers)))
	mux.Handle("GET /status", limit(http.HandlerFunc(s.handleStatus)))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	return s.LoggingMiddleware(s.CORSMiddleware(mux))
}
