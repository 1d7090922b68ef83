package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/export"
	"github.com/gorewood/gitfeed/internal/output"
	"github.com/gorewood/gitfeed/internal/timeline"
)

// timelineFlags holds the flags of the timeline command.
type timelineFlags struct {
	start    string
	stop     string
	filters  []string
	limit    int
	markdown bool
	out      string
}

// newTimelineCmd creates the timeline command.
func newTimelineCmd() *cobra.Command {
	return newTimelineCmdInternal(time.Now)
}

// newTimelineCmdInternal creates the timeline command with an injectable
// clock for relative bounds.
func newTimelineCmdInternal(now func() time.Time) *cobra.Command {
	var flags timelineFlags

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show recent commits as timeline events",
		Long: `Show the repository's recent commits as timeline events.

Each commit is prefixed with the branches that contain it. Bounds accept
durations (24h, 7d, 2w, 1m), dates (2026-01-17), RFC3339 times and @unix
timestamps.

Examples:
  gitfeed timeline                     # Last 100 commits
  gitfeed timeline --start 7d          # Commits from the last week
  gitfeed timeline --markdown -o f.md  # Write a markdown digest
  gitfeed timeline --json              # Structured events`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimeline(cmd, flags, now())
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "Only events at or after this bound")
	cmd.Flags().StringVar(&flags.stop, "stop", "", "Only events at or before this bound")
	cmd.Flags().StringSliceVar(&flags.filters, "filter", nil, "Categories to include (default all)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "Show at most this many events (0 for all)")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "Render a markdown digest")
	cmd.Flags().StringVarP(&flags.out, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runTimeline(cmd *cobra.Command, flags timelineFlags, now time.Time) error {
	printer := newPrinter(cmd)

	if flags.limit < 0 {
		return fail(printer, output.NewUserError("--limit must not be negative"))
	}
	q, err := timeline.ParseQuery(flags.start, flags.stop, flags.filters, now)
	if err != nil {
		return fail(printer, output.NewUserError(err.Error()))
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return fail(printer, err)
	}

	views, err := rt.app.Timeline(cmd.Context(), q)
	if err != nil {
		if len(views) == 0 {
			return fail(printer, err)
		}
		printer.Warn("some events are missing: %v", err)
	}
	if flags.limit > 0 && len(views) > flags.limit {
		views = views[:flags.limit]
	}

	return writeTimeline(printer, flags, views, rt.app.Renderer())
}

// writeTimeline picks the output form: file, markdown, JSON or lines.
func writeTimeline(printer *output.Printer, flags timelineFlags, views []timeline.View, renderer timeline.Renderer) error {
	switch {
	case flags.out != "" && flags.markdown:
		if err := export.WriteMarkdownFile(views, renderer, flags.out); err != nil {
			return fail(printer, output.NewSystemErrorWithCause("writing markdown", err))
		}
		return printer.Success(map[string]any{"message": "Wrote " + flags.out, "path": flags.out})
	case flags.out != "":
		if err := export.WriteJSONFile(views, flags.out); err != nil {
			return fail(printer, output.NewSystemErrorWithCause("writing json", err))
		}
		return printer.Success(map[string]any{"message": "Wrote " + flags.out, "path": flags.out})
	case flags.markdown:
		printer.Print("%s", export.FormatMarkdown(views, renderer))
		return nil
	case printer.IsJSON():
		return export.FormatJSON(printer, views)
	}

	if len(views) == 0 {
		printer.Println("No events in range.")
		return nil
	}
	for _, v := range views {
		printer.Event(v.Key, v.Time, v.Author, v.Description)
	}
	return nil
}
