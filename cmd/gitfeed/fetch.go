package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/output"
	"github.com/gorewood/gitfeed/internal/webhook"
)

// newFetchCmd creates the fetch command.
func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the mirror from its remote",
		Long: `Fetch the configured remote into the mirror, pruning deleted branches.
This is what the sync endpoint runs for each webhook delivery.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}
}

func runFetch(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	rt, err := loadRuntime(cmd)
	if err != nil {
		return fail(printer, err)
	}
	if err := rt.cfg.Repository.Require(); err != nil {
		return fail(printer, err)
	}

	outcome, err := rt.app.Fetch(cmd.Context())
	if err != nil {
		return fail(printer, err)
	}
	if outcome == webhook.Coalesced {
		// Only reachable when another fetch shares this process.
		return fail(printer, output.NewConflictError("a fetch is already running"))
	}

	return printer.Success(map[string]any{
		"message": "Fetched " + rt.cfg.Repository.Remote,
		"remote":  rt.cfg.Repository.Remote,
		"outcome": outcome.String(),
	})
}
