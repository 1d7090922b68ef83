package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorewood/gitfeed/internal/logging"
	"github.com/gorewood/gitfeed/internal/webhook"
)

type countingSyncer struct {
	calls atomic.Int32
}

func (c *countingSyncer) Sync(context.Context) (webhook.Outcome, error) {
	c.calls.Add(1)
	return webhook.Fetched, nil
}

func TestPoller_EmptyScheduleIsDisabled(t *testing.T) {
	p := New(&countingSyncer{}, "", logging.Discard())
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if p.Running() {
		t.Error("Running() = true, want false for empty schedule")
	}
	if p.NextRun() != nil {
		t.Error("NextRun() != nil for empty schedule")
	}
}

func TestPoller_InvalidSchedule(t *testing.T) {
	p := New(&countingSyncer{}, "every so often", logging.Discard())
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want error")
	}
}

func TestPoller_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(&countingSyncer{}, "*/5 * * * *", logging.Discard())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.Running() {
		t.Fatal("Running() = false after Start")
	}

	next := p.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil while running")
	}
	if d := time.Until(*next); d <= 0 || d > 5*time.Minute {
		t.Errorf("NextRun() in %v, want within 5m", d)
	}
	if err := p.Start(ctx); err == nil {
		t.Error("second Start() error = nil, want already running")
	}

	p.Stop()
	if p.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestPoller_RestartSchedulesOnce(t *testing.T) {
	first, cancelFirst := context.WithCancel(context.Background())
	second, cancelSecond := context.WithCancel(context.Background())
	defer cancelSecond()

	p := New(&countingSyncer{}, "*/5 * * * *", logging.Discard())
	if err := p.Start(first); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	p.Stop()
	if err := p.Start(second); err != nil {
		t.Fatalf("Start() after Stop error = %v", err)
	}
	defer p.Stop()

	if got := len(p.cron.Entries()); got != 1 {
		t.Errorf("scheduled entries = %d after restart, want 1", got)
	}

	// Ending the first run's context must not stop the second run.
	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	if !p.Running() {
		t.Error("Running() = false after the earlier context ended")
	}
	if p.NextRun() == nil {
		t.Error("NextRun() = nil while running")
	}
}

func TestPoller_RunSkipsAfterCancel(t *testing.T) {
	syncer := &countingSyncer{}
	p := New(syncer, "* * * * *", logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	p.run(ctx)
	cancel()
	p.run(ctx)

	if got := syncer.calls.Load(); got != 1 {
		t.Errorf("Sync calls = %d, want 1", got)
	}
}
