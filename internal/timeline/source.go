package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gorewood/gitfeed/internal/git"
	"github.com/gorewood/gitfeed/internal/history"
)

// Query selects the events a source should produce.
type Query struct {
	Start   *time.Time // inclusive; nil for unbounded
	Stop    *time.Time // inclusive; nil for unbounded
	Filters []string   // active categories; nil means all
}

// Wants reports whether category passes the filter set.
func (q Query) Wants(category string) bool {
	if q.Filters == nil {
		return true
	}
	return slices.Contains(q.Filters, category)
}

// Source produces timeline events.
type Source interface {
	Events(ctx context.Context, q Query) (*Stream, error)
}

// SkipRecorder counts log records dropped while parsing.
type SkipRecorder interface {
	RecordSkipped(reason string)
}

// GitSource reads refs and the log window of one repository and yields a
// changeset event per commit, with branch names prefixed to the subject.
type GitSource struct {
	refs    git.RefReader
	log     git.LogReader
	remote  string
	logger  *slog.Logger
	skipped SkipRecorder
}

// GitSourceOption configures a GitSource.
type GitSourceOption func(*GitSource)

// WithRemote sets the remote whose tracking branches count.
func WithRemote(remote string) GitSourceOption {
	return func(s *GitSource) { s.remote = remote }
}

// WithLogger sets the logger for skipped records.
func WithLogger(logger *slog.Logger) GitSourceOption {
	return func(s *GitSource) { s.logger = logger }
}

// WithSkipRecorder counts skipped records.
func WithSkipRecorder(r SkipRecorder) GitSourceOption {
	return func(s *GitSource) { s.skipped = r }
}

// NewGitSource returns a GitSource reading refs from refs and history from log.
func NewGitSource(refs git.RefReader, log git.LogReader, opts ...GitSourceOption) *GitSource {
	s := &GitSource{
		refs:   refs,
		log:    log,
		remote: git.DefaultRemote,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events reads the ref table, then the log window, and returns a lazy
// stream of commit events in log order. Refs and log are read before
// Events returns; parsing and attribution happen as the stream is consumed.
func (s *GitSource) Events(ctx context.Context, q Query) (*Stream, error) {
	if !q.Wants(CategoryChangeset) {
		return Empty(), nil
	}

	refs, err := s.refs.ListRefs(ctx, s.remote)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}

	raw, err := s.log.Log(ctx, git.Window{Since: q.Start, Until: q.Stop})
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}

	return NewStream(func(yield func(Event) bool) {
		attributor := history.NewAttributor(refs)
		for record := range history.Records(raw, s.skip) {
			if !yield(commitEvent(record, attributor.Visit(record))) {
				return
			}
		}
	}), nil
}

func (s *GitSource) skip(f *history.ParseFailure) {
	s.logger.Warn("skipping malformed log record", "line", f.Line, "error", f.Err)
	if s.skipped != nil {
		s.skipped.RecordSkipped(skipReason(f))
	}
}

func skipReason(f *history.ParseFailure) string {
	switch {
	case errors.Is(f, history.ErrTimestamp):
		return "timestamp"
	case errors.Is(f, history.ErrFieldCount):
		return "field_count"
	case errors.Is(f, history.ErrEmptyHash):
		return "empty_hash"
	}
	return "other"
}

// PlaceholderSource yields the single placeholder event used when no
// repository is configured.
type PlaceholderSource struct {
	Now func() time.Time
}

// Events implements Source.
func (p PlaceholderSource) Events(_ context.Context, q Query) (*Stream, error) {
	if !q.Wants(CategoryChangeset) {
		return Empty(), nil
	}
	at := time.Now()
	if p.Now != nil {
		at = p.Now()
	}
	if q.Stop != nil && q.Stop.Before(at) {
		at = *q.Stop
	}
	event := Event{Category: CategoryChangeset, Time: at, Payload: PlaceholderEvent{}}
	return NewStream(func(yield func(Event) bool) { yield(event) }), nil
}
