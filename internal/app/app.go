// Package app assembles gitfeed's components from a configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/git"
	"github.com/gorewood/gitfeed/internal/metrics"
	"github.com/gorewood/gitfeed/internal/timeline"
	"github.com/gorewood/gitfeed/internal/webhook"
)

// SourceName is the registry name of the git changeset source.
const SourceName = "git"

// App holds the wired components shared by the HTTP server, the poller, the
// MCP server and the one-shot CLI commands.
type App struct {
	cfg      atomic.Pointer[config.Config]
	logger   *slog.Logger
	metrics  *metrics.Collector
	runner   *git.Runner
	refs     git.RefReader
	registry *timeline.Registry
	renderer atomic.Pointer[timeline.Renderer]
	syncer   *webhook.Syncer
	webhook  *webhook.Handler
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  *metrics.Collector
	gitPath  string
	natives  []nativeSource
	fetchSrc webhook.Fetcher
}

type nativeSource struct {
	name   string
	source timeline.Source
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics attaches a collector. Without one a private collector is
// created so recording never needs nil checks.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithGitExecutable overrides the git binary.
func WithGitExecutable(path string) Option {
	return func(o *options) { o.gitPath = path }
}

// WithNativeSource registers a host changeset source alongside the git
// source. It is left out when timeline.suppress_native is set.
func WithNativeSource(name string, source timeline.Source) Option {
	return func(o *options) { o.natives = append(o.natives, nativeSource{name, source}) }
}

// WithFetcher replaces the fetcher used by the syncer.
func WithFetcher(f webhook.Fetcher) Option {
	return func(o *options) { o.fetchSrc = f }
}

// New wires an App for cfg.
//
// A configuration without a repository path is valid: the timeline then
// holds a single placeholder event and fetches fail with
// config.ErrConfigurationMissing, which the sync endpoint logs.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.NewCollector()
	}

	a := &App{logger: o.logger, metrics: o.metrics}
	a.cfg.Store(cfg)
	renderer := timeline.NewRenderer(cfg.Timeline.BrowserURL)
	a.renderer.Store(&renderer)

	a.registry = timeline.NewRegistry(cfg.Timeline.SuppressNative)
	for _, n := range o.natives {
		a.registry.RegisterNative(n.name, n.source)
	}

	fetcher := o.fetchSrc
	if err := cfg.Repository.Require(); err != nil {
		o.logger.Warn("no repository configured, timeline shows a placeholder", "error", err)
		a.registry.Register(SourceName, timeline.PlaceholderSource{})
		if fetcher == nil {
			fetcher = missingRepository{err: err}
		}
	} else {
		runnerOpts := []git.Option{
			git.WithTimeout(cfg.Repository.GitTimeout),
			git.WithObserver(o.metrics),
			git.WithLogger(o.logger.With("component", "git")),
		}
		if o.gitPath != "" {
			runnerOpts = append(runnerOpts, git.WithExecutable(o.gitPath))
		}
		runner, err := git.NewRunner(cfg.Repository.Path, runnerOpts...)
		if err != nil {
			return nil, fmt.Errorf("wiring repository %s: %w", cfg.Repository.Path, err)
		}
		a.runner = runner

		a.refs = runner
		if cfg.Repository.Backend == config.BackendGoGit {
			a.refs = git.NewGoGitRefs(cfg.Repository.Path)
		}

		a.registry.Register(SourceName, timeline.NewGitSource(a.refs, runner,
			timeline.WithRemote(cfg.Repository.Remote),
			timeline.WithLogger(o.logger.With("component", "timeline")),
			timeline.WithSkipRecorder(o.metrics),
		))
		if fetcher == nil {
			fetcher = runner.Clone(git.WithTimeout(cfg.Repository.FetchTimeout))
		}
	}

	a.syncer = webhook.NewSyncer(fetcher, cfg.Repository.Remote,
		webhook.WithMinInterval(cfg.Sync.MinInterval),
		webhook.WithSyncLogger(o.logger.With("component", "webhook")),
		webhook.WithRecorder(o.metrics),
	)
	if err := cfg.Sync.RequireSecret(); err != nil {
		o.logger.Info("sync endpoint disabled", "reason", err)
	}
	a.webhook = webhook.NewHandler(
		webhook.NewMatcher(cfg.Sync.PathPrefix, cfg.Sync.Secret),
		cfg.Sync.Landing,
		a.syncer,
		o.logger.With("component", "webhook"),
	)
	return a, nil
}

// Config returns the configuration in effect.
func (a *App) Config() *config.Config { return a.cfg.Load() }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Metrics returns the metrics collector.
func (a *App) Metrics() *metrics.Collector { return a.metrics }

// Registry returns the timeline source registry.
func (a *App) Registry() *timeline.Registry { return a.registry }

// Renderer returns the renderer in effect.
func (a *App) Renderer() timeline.Renderer { return *a.renderer.Load() }

// Syncer returns the shared fetch syncer.
func (a *App) Syncer() *webhook.Syncer { return a.syncer }

// Webhook returns the sync endpoint handler.
func (a *App) Webhook() *webhook.Handler { return a.webhook }

// HasRepository reports whether a repository is configured.
func (a *App) HasRepository() bool { return a.runner != nil }

// Reload applies the settings that can change while serving: the sync
// secret, prefix and landing, and the browser URL. Repository settings
// need a restart; a change is logged.
func (a *App) Reload(cfg *config.Config) {
	old := a.cfg.Swap(cfg)
	if old != nil && old.Repository != cfg.Repository {
		a.logger.Warn("repository settings changed, restart to apply")
	}
	a.webhook.Update(webhook.NewMatcher(cfg.Sync.PathPrefix, cfg.Sync.Secret), cfg.Sync.Landing)
	renderer := timeline.NewRenderer(cfg.Timeline.BrowserURL)
	a.renderer.Store(&renderer)
}

// Timeline queries every registered source and renders the events.
// Source failures are logged and the remaining events are still returned,
// together with the joined error.
func (a *App) Timeline(ctx context.Context, q timeline.Query) ([]timeline.View, error) {
	stream, err := a.registry.Events(ctx, q)
	if err != nil {
		a.logger.ErrorContext(ctx, "timeline source failed", "error", err)
	}
	return a.Renderer().Views(stream), err
}

// Refs reads the branch table of the configured repository.
func (a *App) Refs(ctx context.Context) (git.RefTable, error) {
	if a.refs == nil {
		return nil, fmt.Errorf("repository.path: %w", config.ErrConfigurationMissing)
	}
	return a.refs.ListRefs(ctx, a.Config().Repository.Remote)
}

// Fetch runs a fetch through the shared syncer.
func (a *App) Fetch(ctx context.Context) (webhook.Outcome, error) {
	return a.syncer.Sync(ctx)
}

// missingRepository fails every fetch with the configuration error.
type missingRepository struct{ err error }

func (m missingRepository) Fetch(context.Context, string) error {
	return m.err
}

// IsConfigurationMissing reports whether err stems from an absent setting.
func IsConfigurationMissing(err error) bool {
	return errors.Is(err, config.ErrConfigurationMissing)
}
