package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/output"
)

// redacted replaces the sync secret in displayed configuration.
const redacted = "********"

// newConfigCmd creates the config command with its subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect gitfeed configuration",
		Long: `Inspect the effective configuration: file values, environment
overrides (GITFEED_*) and defaults combined.`,
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigPathCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return fail(printer, err)
			}
			shown := *cfg
			if shown.Sync.Secret != "" {
				shown.Sync.Secret = redacted
			}
			if printer.IsJSON() {
				return printer.WriteJSON(shown)
			}
			data, err := yaml.Marshal(shown)
			if err != nil {
				return fail(printer, output.NewSystemErrorWithCause("encoding config", err))
			}
			printer.Print("%s", data)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			path := configPath(cmd)
			if path == "" {
				path = config.DefaultPath()
			}
			_, statErr := os.Stat(path)
			return printer.Success(map[string]any{
				"path":   path,
				"exists": statErr == nil,
			})
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				var verr config.ValidationError
				if errors.As(err, &verr) && printer.IsJSON() {
					_ = printer.WriteJSON(map[string]any{"valid": false, "errors": verr.Errors})
					return output.FromError(err)
				}
				return fail(printer, err)
			}
			return printer.Success(map[string]any{
				"message":    "Configuration is valid",
				"valid":      true,
				"repository": cfg.Repository.Path != "",
				"sync":       cfg.Sync.Secret != "",
			})
		},
	}
}
