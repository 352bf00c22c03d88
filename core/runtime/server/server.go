package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cosmosgate/cosmosgate/core/logger"
	"github.com/cosmosgate/cosmosgate/core/runtime/middleware"
)

// Server wraps the chi router and the HTTP listener lifecycle.
type Server struct {
	router *chi.Mux
	server *http.Server
	port   string
}

// New creates an HTTP server with the standard middleware chain. Routes are
// mounted by the caller through Router().
func New(port string) *Server {
	if port == "" {
		port = "8080"
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Metrics)

	return &Server{
		router: r,
		port:   port,
	}
}

// Router returns the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// StartAsync starts the HTTP server without blocking.
func (s *Server) StartAsync() error {
	log := logger.New("http")
	log.Infof("Starting HTTP server on port %s", s.port)

	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on http://127.0.0.1:%s", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.PrintError("HTTP server error", err)
		}
	}()

	return nil
}

// Stop shuts the HTTP server down gracefully, force closing after 15s.
func (s *Server) Stop() error {
	log := logger.New("http")
	log.Info("Shutting down HTTP server")

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.PrintError("Error shutting down HTTP server", err)
		if closeErr := s.server.Close(); closeErr != nil {
			log.PrintError("Error force closing HTTP server", closeErr)
		}
		return err
	}

	log.Info("HTTP server stopped")
	return nil
}
