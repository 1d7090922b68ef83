// Package main provides the entry point for the gitfeed CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/config"
	"github.com/gorewood/gitfeed/internal/envfile"
	"github.com/gorewood/gitfeed/internal/history"
	"github.com/gorewood/gitfeed/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootFlag returns the value of a persistent root flag as seen from cmd,
// or "" when the flag does not exist.
func rootFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// isJSONMode reports whether --json is set.
func isJSONMode(cmd *cobra.Command) bool {
	return rootFlag(cmd, "json") == "true"
}

// configPath returns --config; "" means the default path.
func configPath(cmd *cobra.Command) string {
	return rootFlag(cmd, "config")
}

// colorMode parses --color.
func colorMode(cmd *cobra.Command) (output.ColorMode, error) {
	return output.ParseColorMode(rootFlag(cmd, "color"))
}

// newPrinter builds the printer for cmd honoring --json and --color.
// An invalid --color was already rejected before the command ran.
func newPrinter(cmd *cobra.Command) *output.Printer {
	mode, err := colorMode(cmd)
	if err != nil {
		mode = output.ColorAuto
	}
	colored := mode.Enabled(cmd.OutOrStdout())
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), colored).WithStderr(cmd.ErrOrStderr())
}

// buildVersion describes the binary as "<version> (<commit>, <date>)".
// Without ldflags, a `go install`ed binary reports its module version and
// VCS stamp from the embedded build info.
func buildVersion() string {
	v, c, d := version, commit, date
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch {
				case s.Key == "vcs.revision" && c == "none":
					c = s.Value
				case s.Key == "vcs.time" && d == "unknown":
					d = s.Value
				}
			}
		}
	}
	if c == "none" && d == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s, %s)", v, history.ShortHash(c), d)
}

func main() {
	err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(buildVersion()))
	os.Exit(output.GetExitCode(err))
}

// newRootCmd creates the root command for the gitfeed CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitfeed",
		Short: "A branch-aware activity feed for a git mirror",
		Long: `Gitfeed - turns a git mirror into a branch-aware activity feed.

Gitfeed reads the branches and recent history of a local mirror and
presents each commit as a timeline event, prefixed with the branches that
contain it. A webhook endpoint keeps the mirror fetched as upstream
changes arrive.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'gitfeed --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles()
		if _, err := colorMode(cmd); err != nil {
			newPrinter(cmd).Error(err)
			return err
		}
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("config", "", "Config file (default <config dir>/config.yaml)")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// loadEnvFiles loads env files in priority order. First match for each
// variable wins; environment variables already set always take precedence.
//
// Resolution order:
//  1. $CWD/.env.local
//  2. $CWD/.env
//  3. <config dir>/env
func loadEnvFiles() {
	paths := []string{".env.local", ".env"}
	if dir := config.Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	_ = envfile.LoadAll(paths...)
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "feed", Title: "Feed Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "sync", Title: "Sync Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "agent", Title: "Agent Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newTimelineCmd(), "feed")
	addGroupedCommand(cmd, newRefsCmd(), "feed")

	addGroupedCommand(cmd, newFetchCmd(), "sync")
	addGroupedCommand(cmd, newServeCmd(), "sync")

	addGroupedCommand(cmd, newMCPCmd(), "agent")

	addGroupedCommand(cmd, newConfigCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
