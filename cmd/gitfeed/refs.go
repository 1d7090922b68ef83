package main

import (
	"cmp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/gitfeed/internal/history"
)

// refRow is one tip commit in refs output.
type refRow struct {
	Hash     string   `json:"hash"`
	Branches []string `json:"branches"`
}

// newRefsCmd creates the refs command.
func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "List branches by tip commit",
		Long: `List the local branches and the configured remote's tracking branches,
grouped by the commit they point at. This is the table the timeline uses
to decorate commits.`,
		Args: cobra.NoArgs,
		RunE: runRefs,
	}
}

func runRefs(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	rt, err := loadRuntime(cmd)
	if err != nil {
		return fail(printer, err)
	}

	table, err := rt.app.Refs(cmd.Context())
	if err != nil {
		return fail(printer, err)
	}

	rows := make([]refRow, 0, len(table))
	for hash, set := range table {
		rows = append(rows, refRow{Hash: hash, Branches: set.Sorted()})
	}
	slices.SortFunc(rows, func(a, b refRow) int {
		return cmp.Or(cmp.Compare(a.Branches[0], b.Branches[0]), cmp.Compare(a.Hash, b.Hash))
	})

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"remote": rt.cfg.Repository.Remote,
			"refs":   rows,
		})
	}

	if len(rows) == 0 {
		printer.Println("No branches found.")
		return nil
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{history.ShortHash(r.Hash), strings.Join(r.Branches, ", ")})
	}
	printer.Table([]string{"COMMIT", "BRANCHES"}, cells)
	return nil
}
