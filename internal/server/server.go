// Package server provides the HTTP API for the career advisor.
package server

import (
	"context"
	"net/http"

	"github.com/careerpath/advisor/internal/config"
	"github.com/careerpath/advisor/internal/rag"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server is the HTTP server for the advisor API.
type Server struct {
	runtime *rag.Runtime
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server over a bootstrapped runtime.
func NewServer(rt *rag.Runtime, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runtime: rt,
		config:  cfg,
		logger:  logger,
	}
}

// Router returns the HTTP handler with middleware and routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(s.corsHandler())

	r.Get("/", s.handleRoot)
	r.Post("/query", s.handleQuery)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	if s.runtime.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.runtime.Metrics.Handler())
	}
	return r
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server",
		zap.String("addr", addr),
		zap.Strings("allowed_origins", s.config.Server.AllowedOrigins),
		zap.String("state", s.runtime.Availability().String()))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
