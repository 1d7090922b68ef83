package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/app"
	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/logging"
	"github.com/gorewood/gitfeed/internal/output"
)

// runtime is what a command needs after configuration is loaded.
type runtime struct {
	cfg      *config.Config
	app      *app.App
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// loadRuntime loads configuration, builds the logger (always on stderr so
// stdout stays clean for --json) and wires the application.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, output.FromError(err)
	}

	logger, level, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, output.NewUserError(err.Error())
	}

	a, err := app.New(cfg, app.WithLogger(logger))
	if err != nil {
		return nil, output.FromError(err)
	}
	return &runtime{cfg: cfg, app: a, logger: logger, logLevel: level}, nil
}

// fail prints err and returns it classified for the exit code.
func fail(printer *output.Printer, err error) error {
	exitErr := output.FromError(err)
	printer.Error(exitErr)
	return exitErr
}
