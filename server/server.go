// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"roicalc/config"
)

// Server is the HTTP front end of the calculator
type Server struct {
	httpServer *http.Server
	limiter    *RateLimiter
}

// New builds the server and its routes
func New(cfg *config.Config, handlers *Handlers, metrics httpRecorder) *Server {
	limiter := NewRateLimiter(cfg.ReportRateLimit, time.Minute)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, handlers, limiter, metrics),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		limiter: limiter,
	}
}

// NewRouter wires the routes and middleware into a single handler
func NewRouter(cfg *config.Config, handlers *Handlers, limiter *RateLimiter, metrics httpRecorder) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /simulate", handlers.Simulate)
	mux.HandleFunc("POST /scenarios", handlers.CreateScenario)
	mux.HandleFunc("GET /scenarios", handlers.ListScenarios)
	mux.HandleFunc("GET /scenarios/{id}", handlers.GetScenario)
	mux.HandleFunc("DELETE /scenarios/{id}", handlers.DeleteScenario)
	mux.Handle("POST /report/generate", RateLimitMiddleware(limiter, http.HandlerFunc(handlers.GenerateReport)))
	mux.HandleFunc("GET /health", handlers.Health)

	var handler http.Handler = mux
	handler = corsMiddleware(cfg.CORSAllowedOrigins, handler)
	handler = recoverMiddleware(handler)
	handler = loggingMiddleware(metrics, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

// Start begins serving in the background. Listen errors are returned immediately.
func (s *Server) Start() (<-chan error, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	return serveErr, nil
}

// Shutdown stops accepting requests and waits for in-flight ones to finish
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
