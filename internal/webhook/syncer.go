package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Fetcher updates the mirror from a remote.
type Fetcher interface {
	Fetch(ctx context.Context, remote string) error
}

// Recorder receives sync metrics.
type Recorder interface {
	RecordSyncRequest(outcome string)
	RecordFetch(result string, elapsed time.Duration)
}

// Outcome is what Sync did with a request.
type Outcome int

const (
	// Fetched means this call ran the fetch (and any follow-ups).
	Fetched Outcome = iota
	// Coalesced means a fetch was already running. The request is carried
	// until a fetch that starts after it completes: normally the owner's
	// follow-up, or the next Sync if the owner's context ended first.
	Coalesced
)

func (o Outcome) String() string {
	if o == Coalesced {
		return "coalesced"
	}
	return "fetched"
}

// State is the syncer's fetch state.
type State int

const (
	// Idle means no fetch is running; the next Sync call will start one.
	Idle State = iota
	// FetchInFlight means a fetch is running and new requests coalesce.
	FetchInFlight
)

func (s State) String() string {
	if s == FetchInFlight {
		return "fetch-in-flight"
	}
	return "idle"
}

// Syncer runs fetches for one repository, at most one at a time.
//
// A request that arrives while a fetch is running does not start a second
// one: it marks the repository dirty and returns. When the running fetch
// finishes, the caller that owns it fetches once more for all requests that
// arrived meanwhile, since they may announce commits the first fetch missed.
// Fetch starts are paced by a token bucket.
type Syncer struct {
	fetcher  Fetcher
	remote   string
	limiter  *rate.Limiter
	logger   *slog.Logger
	recorder Recorder

	mu      sync.Mutex
	running bool
	pending bool
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithMinInterval spaces fetch starts at least d apart. Zero disables pacing.
func WithMinInterval(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithSyncLogger sets the logger.
func WithSyncLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) { s.logger = logger }
}

// WithRecorder attaches metrics.
func WithRecorder(r Recorder) SyncerOption {
	return func(s *Syncer) { s.recorder = r }
}

// NewSyncer returns a Syncer fetching remote through fetcher.
func NewSyncer(fetcher Fetcher, remote string, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		fetcher: fetcher,
		remote:  remote,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether a fetch is running.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return FetchInFlight
	}
	return Idle
}

// Sync fetches, or joins the fetch already running. The returned error is
// that of the last fetch this call ran; a coalesced call never fails.
func (s *Syncer) Sync(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		s.record(Coalesced)
		return Coalesced, nil
	}
	s.running = true
	// Requests left over from a canceled owner are served by this fetch.
	s.pending = false
	s.mu.Unlock()
	s.record(Fetched)

	for {
		err := s.fetchOnce(ctx)

		s.mu.Lock()
		if !s.pending {
			s.running = false
			s.mu.Unlock()
			return Fetched, err
		}
		if ctx.Err() != nil {
			// Leave pending set so the next Sync fetches for these requests.
			s.running = false
			s.mu.Unlock()
			s.logger.Warn("follow-up fetch deferred", "remote", s.remote, "error", ctx.Err())
			return Fetched, err
		}
		s.pending = false
		s.mu.Unlock()
		s.logger.Debug("fetching again for requests received during fetch")
	}
}

func (s *Syncer) fetchOnce(ctx context.Context) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting to fetch: %w", err)
		}
	}

	start := time.Now()
	err := s.fetcher.Fetch(ctx, s.remote)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = "error"
		s.logger.Error("fetch failed", "remote", s.remote, "elapsed", elapsed, "error", err)
	} else {
		s.logger.Info("fetch completed", "remote", s.remote, "elapsed", elapsed)
	}
	if s.recorder != nil {
		s.recorder.RecordFetch(result, elapsed)
	}
	return err
}

func (s *Syncer) record(o Outcome) {
	if s.recorder != nil {
		s.recorder.RecordSyncRequest(o.String())
	}
}
