// Package server implements the inkwell HTTP API.
//
// The API exposes the studio flows and the document store over JSON:
// creating documents from descriptions, editing them with natural
// language, reconstructing uploaded images, rendering stored documents,
// and browsing version history. Reconstruction streams progress as
// server-sent events so clients can show the build live.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-studio/inkwell/pkg/render/export"
	"github.com/inkwell-studio/inkwell/pkg/store"
	"github.com/inkwell-studio/inkwell/pkg/studio"
)

// Server hosts the HTTP API.
type Server struct {
	studio   *studio.Studio
	store    store.Store
	exporter *export.Exporter
	logger   *log.Logger
}

// Config collects the server's collaborators.
type Config struct {
	Studio   *studio.Studio
	Store    store.Store
	Exporter *export.Exporter
	Logger   *log.Logger
}

// New creates a Server. Studio and Store are required; Exporter defaults
// to an uncached one and Logger to log.Default().
func New(cfg Config) (*Server, error) {
	if cfg.Studio == nil {
		return nil, errors.New("server: studio is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		studio:   cfg.Studio,
		store:    cfg.Store,
		exporter: cfg.Exporter,
		logger:   cfg.Logger,
	}
	if s.exporter == nil {
		s.exporter = export.New()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s, nil
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Post("/api/reconstruct", s.handleReconstruct)

	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Post("/", s.handleCreateDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Post("/edit", s.handleEdit)
			r.Post("/reconstruct", s.handleReconstruct)
			r.Get("/render", s.handleRender)
			r.Get("/versions", s.handleListVersions)
			r.Get("/versions/{versionID}", s.handleGetVersion)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs method, path, status and duration for each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
