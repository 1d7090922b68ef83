// Package poller fetches the mirror on a cron schedule, as a fallback for
// webhooks that were never delivered.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gorewood/gitfeed/internal/webhook"
)

// Syncer is the fetch entry point shared with the webhook endpoint, so a
// scheduled fetch coalesces with a concurrent webhook fetch.
type Syncer interface {
	Sync(ctx context.Context) (webhook.Outcome, error)
}

// Poller runs Sync on a cron schedule.
type Poller struct {
	syncer   Syncer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// New returns a Poller for a standard five-field cron expression.
func New(syncer Syncer, schedule string, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		syncer:   syncer,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "poller"),
	}
}

// Start schedules fetches until ctx is done or Stop is called. An empty
// schedule does nothing.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schedule == "" {
		p.logger.Info("fetch schedule not configured, poller disabled")
		return nil
	}
	if p.running {
		return fmt.Errorf("poller already running")
	}
	// Each run gets a fresh scheduler; a stopped one keeps its entries.
	c := cron.New()
	if _, err := c.AddFunc(p.schedule, func() { p.run(ctx) }); err != nil {
		return fmt.Errorf("invalid fetch schedule %q: %w", p.schedule, err)
	}

	p.cron = c
	c.Start()
	p.running = true
	p.logger.Info("poller started", "schedule", p.schedule)

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.cron == c {
			p.stopLocked()
		}
	}()
	return nil
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	outcome, err := p.syncer.Sync(ctx)
	if err != nil {
		p.logger.Error("scheduled fetch failed", "error", err)
		return
	}
	p.logger.Debug("scheduled fetch done", "outcome", outcome.String())
}

// Stop stops scheduling and waits for a running fetch to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
	p.logger.Info("poller stopped")
}

// Running reports whether the poller is scheduled.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// NextRun returns the next scheduled fetch, or nil when not scheduled.
func (p *Poller) NextRun() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if !p.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
