package webhook

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// DefaultLanding is where every sync request is redirected.
const DefaultLanding = "/"

// maxPayloadBytes caps the request body read while looking for the payload.
const maxPayloadBytes = 1 << 20

type settings struct {
	matcher Matcher
	landing string
}

// Handler serves the sync endpoint. Matching requests trigger a fetch and
// are always answered with a redirect to the landing location, whatever
// the fetch did; failures only reach the log. Other requests fall through.
type Handler struct {
	current atomic.Pointer[settings]
	syncer  *Syncer
	logger  *slog.Logger
}

// NewHandler returns a Handler.
func NewHandler(matcher Matcher, landing string, syncer *Syncer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{syncer: syncer, logger: logger}
	h.Update(matcher, landing)
	return h
}

// Update swaps the matcher and landing location, e.g. after the secret
// was rotated in the config file.
func (h *Handler) Update(matcher Matcher, landing string) {
	if landing == "" {
		landing = DefaultLanding
	}
	h.current.Store(&settings{matcher: matcher, landing: landing})
}

// Matcher returns the matcher in effect.
func (h *Handler) Matcher() Matcher {
	return h.current.Load().matcher
}

// Middleware serves sync requests and passes everything else to next.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.current.Load().matcher.Match(r) {
			next.ServeHTTP(w, r)
			return
		}
		h.serveSync(w, r)
	})
}

// ServeHTTP serves r as a sync request if it matches and 404s otherwise.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Middleware(http.NotFoundHandler()).ServeHTTP(w, r)
}

func (h *Handler) serveSync(w http.ResponseWriter, r *http.Request) {
	landing := h.current.Load().landing

	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	if r.FormValue("payload") == "" {
		h.logger.DebugContext(r.Context(), "sync request without payload")
	}

	// The fetch outlives a disconnecting sender so the mirror is not left
	// half updated.
	ctx := context.WithoutCancel(r.Context())
	outcome, err := h.syncer.Sync(ctx)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "sync request fetch failed", "error", err)
	} else {
		h.logger.InfoContext(r.Context(), "sync request handled", "outcome", outcome.String())
	}

	http.Redirect(w, r, landing, http.StatusSeeOther)
}
