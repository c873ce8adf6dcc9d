// Package server is the HTTP and websocket surface for the analysis
// workflow: submit a ticker question, inspect or resume a paused thread,
// stream node lifecycle events live, and check process health.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/bourseiq/internal/events"
	"github.com/aristath/bourseiq/internal/store"
	"github.com/aristath/bourseiq/internal/workflow"
)

// Config is everything Server needs from the wired Container.
type Config struct {
	Port        int
	DevMode     bool
	Log         zerolog.Logger
	Graph       *workflow.Graph
	Checkpoints *store.Checkpointer
	Events      *events.Manager
}

// Server owns the chi router and the underlying http.Server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	threads *threadHandlers
	health  *healthHandlers
}

// New builds a Server with routes and middleware installed, ready for
// Start.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		threads: &threadHandlers{
			graph:       cfg.Graph,
			checkpoints: cfg.Checkpoints,
			events:      cfg.Events,
			log:         cfg.Log.With().Str("component", "threads").Logger(),
		},
		health: &healthHandlers{log: cfg.Log.With().Str("component", "health").Logger()},
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // workflow runs can take longer than a typical API call
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: !devMode,
		MaxAge:           300,
	}))
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.health.handleHealthz)

		r.Post("/analyze", s.threads.handleAnalyze)
		r.Get("/threads/{threadID}/state", s.threads.handleState)
		r.Post("/threads/{threadID}/resume", s.threads.handleResume)
		r.Get("/threads/{threadID}/stream", s.threads.handleStream)
	})
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("server starting")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
