package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gorewood/gitfeed/internal/app"
	"github.com/gorewood/gitfeed/internal/timeline"
)

// TimelineResponse is the body of GET /timeline.
type TimelineResponse struct {
	Events []timeline.View `json:"events"`
	Errors []string        `json:"errors,omitempty"`
}

// RefsResponse is the body of GET /refs: commit hash to sorted branch names.
type RefsResponse struct {
	Remote string              `json:"remote"`
	Refs   map[string][]string `json:"refs"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var filters []string
	if values, ok := params["filter"]; ok {
		filters = values
	}
	q, err := timeline.ParseQuery(params.Get("start"), params.Get("stop"), filters, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := s.app.Timeline(r.Context(), q)
	resp := TimelineResponse{Events: views}
	if err != nil {
		resp.Errors = unjoin(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefs(w http.ResponseWriter, r *http.Request) {
	table, err := s.app.Refs(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if app.IsConfigurationMissing(err) {
			status = http.StatusServiceUnavailable
		}
		s.logger.ErrorContext(r.Context(), "reading refs failed", "error", err)
		writeError(w, status, err.Error())
		return
	}

	resp := RefsResponse{Remote: s.app.Config().Repository.Remote, Refs: make(map[string][]string, len(table))}
	for hash, set := range table {
		resp.Refs[hash] = set.Sorted()
	}
	writeJSON(w, http.StatusOK, resp)
}

type health struct {
	Status     string   `json:"status"`
	Repository bool     `json:"repository"`
	Sync       string   `json:"sync"`
	Sources    []string `json:"sources"`
	Time       string   `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sources := s.app.Registry().Names()
	sort.Strings(sources)
	writeJSON(w, http.StatusOK, health{
		Status:     "ok",
		Repository: s.app.HasRepository(),
		Sync:       s.app.Syncer().State().String(),
		Sources:    sources,
		Time:       s.now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// unjoin splits an errors.Join result into messages.
func unjoin(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		msgs := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
