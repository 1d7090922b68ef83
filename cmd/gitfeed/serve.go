package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/logging"
	"github.com/gorewood/gitfeed/internal/output"
	"github.com/gorewood/gitfeed/internal/poller"
	"github.com/gorewood/gitfeed/internal/server"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline and the sync endpoint over HTTP",
		Long: `Serve the timeline, the branch table, health and metrics over HTTP,
with the webhook sync endpoint mounted at <path_prefix>/<secret>.

Point the upstream host's push webhook at the sync endpoint to keep the
mirror current. With sync.schedule set, the mirror is also fetched on a
cron schedule. Changes to the config file are picked up without a
restart, except for repository settings.

Endpoints:
  GET  /timeline   Timeline events (start, stop, filter query params)
  GET  /refs       Branches by tip commit
  GET  /healthz    Health and sync state
  GET  /metrics    Prometheus metrics
  POST <path_prefix>/<secret>  Fetch, then redirect to the landing page`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen)")
	return cmd
}

func runServe(cmd *cobra.Command, listen string) error {
	printer := newPrinter(cmd)

	rt, err := loadRuntime(cmd)
	if err != nil {
		return fail(printer, err)
	}
	if listen != "" {
		rt.cfg.Server.Listen = listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := poller.New(rt.app.Syncer(), rt.cfg.Sync.Schedule, rt.logger)
	if err := p.Start(ctx); err != nil {
		return fail(printer, output.NewUserError(err.Error()))
	}
	defer p.Stop()

	if path := watchedConfigPath(cmd); path != "" {
		go func() {
			err := config.Watch(ctx, path, config.DefaultDebounce, rt.logger, func(cfg *config.Config) {
				if listen != "" {
					cfg.Server.Listen = listen
				}
				if level, err := logging.ParseLevel(cfg.Log.Level); err == nil {
					rt.logLevel.Set(level)
				}
				rt.app.Reload(cfg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				rt.logger.Warn("config watch stopped", "error", err)
			}
		}()
	}

	if err := server.New(rt.app).ListenAndServe(ctx); err != nil {
		return fail(printer, output.NewSystemErrorWithCause("serving", err))
	}
	return nil
}

// watchedConfigPath is the config file to watch, or "" when there is none.
func watchedConfigPath(cmd *cobra.Command) string {
	path := configPath(cmd)
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
