// Package web provides the HTTP server that exposes format decoding.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/coerce/internal/config"
	"github.com/JonMunkholm/coerce/internal/core"
	"github.com/JonMunkholm/coerce/internal/web/middleware"
)

// Server is the HTTP server for the decode service.
type Server struct {
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *core.DecodeLimiter

	// dates is shared by every request policy so layouts are translated once.
	dates *core.DateFormatter
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		limiter: core.NewDecodeLimiter(cfg.Decode.MaxConcurrent, cfg.Decode.MaxWaitTime),
		dates:   cfg.Coerce.DateFormatter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/formats", s.handleListFormats)

		// Format from the URL, or from Content-Type when omitted
		r.Post("/decode", s.handleDecode)
		r.Post("/decode/{format}", s.handleDecode)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, then waits for in-flight decodes.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if active := s.limiter.ActiveCount(); active > 0 {
		slog.Info("waiting for decodes to complete", "active", active)
	}
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON and writes it to w with the given status.
// The body is encoded before any header is sent, so an unencodable value
// becomes a 500 error response instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("json encode error", "error", err)
		msg := core.MapError(err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("response write error", "error", err)
	}
}
