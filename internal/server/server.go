// Package server serves the timeline, refs, health and metrics endpoints,
// with the sync endpoint mounted in front of them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorewood/gitfeed/internal/app"
)

// Server is the gitfeed HTTP server.
type Server struct {
	app    *app.App
	logger *slog.Logger
	now    func() time.Time
}

// New returns a Server for a.
func New(a *app.App) *Server {
	return &Server{
		app:    a,
		logger: a.Logger().With("component", "server"),
		now:    time.Now,
	}
}

// Handler returns the complete handler: routes wrapped in the sync
// endpoint, request IDs, access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /timeline", s.handleTimeline)
	mux.HandleFunc("GET /refs", s.handleRefs)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.app.Metrics().Handler())

	hook := s.app.Webhook()
	redact := func(path string) string { return hook.Matcher().Redact(path) }

	var handler http.Handler = mux
	handler = hook.Middleware(handler)
	handler = accessLog(s.logger, redact, s.app.Metrics(), handler)
	handler = requestID(handler)
	handler = recovery(s.logger, handler)
	return handler
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cfg := s.app.Config().Server
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.app.Config().Server
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
