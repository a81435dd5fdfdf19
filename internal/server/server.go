// Package server exposes sessions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KaramelBytes/showloom-cli/internal/analysis"
	"github.com/KaramelBytes/showloom-cli/internal/logger"
	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/KaramelBytes/showloom-cli/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds server settings.
type Config struct {
	DefaultCSV     string
	ReportFileName string
	TopN           int
	MaxUploadBytes int64
}

// Server routes API requests to sessions.
type Server struct {
	cfg      Config
	router   *chi.Mux
	store    *session.Store
	validate *validation.Validator
	log      *logger.Logger
}

// New creates a server backed by store.
func New(cfg Config, store *session.Store, log *logger.Logger) *Server {
	if cfg.ReportFileName == "" {
		cfg.ReportFileName = analysis.ReportFileName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		store:    store,
		validate: newViewValidator(),
		log:      log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Post("/dataset", s.handleUpload)
			r.Post("/dataset/default", s.handleLoadDefault)
			r.Get("/view", s.handleView)
			r.Get("/report", s.handleReport)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
